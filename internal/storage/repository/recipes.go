package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/magabrotheeeer/recipe-exchange/internal/models"
)

// CreateRecipe вставляет новый документ рецепта и возвращает его ID.
func (s *Storage) CreateRecipe(ctx context.Context, recipe models.Recipe) (string, error) {
	const op = "storage.CreateRecipe"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO recipes (name, image, details, youtube_video_code,
			      country, category, creator_email)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		recipe.Name, recipe.Image, recipe.Details, recipe.YoutubeVideoCode,
		recipe.Country, recipe.Category, recipe.CreatorEmail).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetRecipe возвращает рецепт по ID вместе со списком оплативших и отметками.
func (s *Storage) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	const op = "storage.GetRecipe"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, image, details, youtube_video_code, country,
			      category, creator_email, watch_count
			  FROM recipes WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Recipe
	if err := row.Scan(&result.ID, &result.Name, &result.Image, &result.Details,
		&result.YoutubeVideoCode, &result.Country, &result.Category,
		&result.CreatorEmail, &result.WatchCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrRecipeNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.loadRecipeLists(ctx, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// loadRecipeLists подгружает purchased_by и reactions рецепта.
func (s *Storage) loadRecipeLists(ctx context.Context, recipe *models.Recipe) error {
	recipe.PurchasedBy = []string{}
	recipe.Reactions = []models.Reaction{}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT viewer_email FROM recipe_purchases WHERE recipe_id = $1 ORDER BY viewer_email`,
		recipe.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			_ = rows.Close()
			return err
		}
		recipe.PurchasedBy = append(recipe.PurchasedBy, email)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}

	rows, err = s.DB.QueryContext(ctx,
		`SELECT user_email, type FROM recipe_reactions WHERE recipe_id = $1 ORDER BY user_email`,
		recipe.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var reaction models.Reaction
		if err := rows.Scan(&reaction.User, &reaction.Type); err != nil {
			_ = rows.Close()
			return err
		}
		recipe.Reactions = append(recipe.Reactions, reaction)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return rows.Close()
}

// ListRecipes возвращает страницу рецептов по фильтру и общее количество
// совпадений. Поиск по имени регистронезависимый, по подстроке.
func (s *Storage) ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, int, error) {
	const op = "storage.ListRecipes"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := buildRecipeFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM recipes` + where
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := `SELECT id, name, image, country, category, creator_email, watch_count
			  FROM recipes` + where +
		` ORDER BY id LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, offset)

	result, err := s.queryRecipeSummaries(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// SuggestRecipes возвращает до limit рецептов по фильтру, отсортированных
// по убыванию счётчика просмотров.
func (s *Storage) SuggestRecipes(ctx context.Context, category, country string, limit int) ([]*models.Recipe, error) {
	const op = "storage.SuggestRecipes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := buildRecipeFilter(models.RecipeFilter{Category: category, Country: country})
	query := `SELECT id, name, image, country, category, creator_email, watch_count
			  FROM recipes` + where +
		` ORDER BY watch_count DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	result, err := s.queryRecipeSummaries(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// buildRecipeFilter собирает WHERE-условие и аргументы по фильтру.
func buildRecipeFilter(filter models.RecipeFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, `name ILIKE $`+strconv.Itoa(len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, `category = $`+strconv.Itoa(len(args)))
	}
	if filter.Country != "" {
		args = append(args, filter.Country)
		conds = append(conds, `country = $`+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	where := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}

// queryRecipeSummaries выполняет списочный запрос рецептов в проекции без
// details и кода видео и подгружает списки для каждой строки.
func (s *Storage) queryRecipeSummaries(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	result := []*models.Recipe{}
	for rows.Next() {
		var item models.Recipe
		if err := rows.Scan(&item.ID, &item.Name, &item.Image, &item.Country,
			&item.Category, &item.CreatorEmail, &item.WatchCount); err != nil {
			_ = rows.Close()
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	for _, item := range result {
		if err := s.loadRecipeLists(ctx, item); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// HasPurchased сообщает, оплатил ли пользователь просмотр рецепта.
func (s *Storage) HasPurchased(ctx context.Context, recipeID, viewerEmail string) (bool, error) {
	const op = "storage.HasPurchased"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM recipe_purchases WHERE recipe_id = $1 AND viewer_email = $2
	)`
	if err := s.DB.QueryRowContext(ctx, query, recipeID, viewerEmail).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// PurchaseRecipeView выполняет обмен монет при первом просмотре чужого
// рецепта одной транзакцией: условное списание price у зрителя, вставка в
// recipe_purchases, начисление reward автору и инкремент watch_count.
// Недостаток средств отменяет всё; повторная вставка (гонка двух запросов)
// тоже отменяет всё и возвращает ErrAlreadyPurchased. Отсутствующий аккаунт
// автора начисление пропускает, остальное фиксируется.
func (s *Storage) PurchaseRecipeView(ctx context.Context, recipeID, viewerEmail string, price, reward int) error {
	const op = "storage.PurchaseRecipeView"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET coins = coins - $1 WHERE email = $2 AND coins >= $1`,
		price, viewerEmail)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrInsufficientCoins)
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO recipe_purchases (recipe_id, viewer_email)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		recipeID, viewerEmail)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAlreadyPurchased)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET coins = coins + $1
		 WHERE email = (SELECT creator_email FROM recipes WHERE id = $2)`,
		reward, recipeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE recipes SET watch_count = watch_count + 1 WHERE id = $1`,
		recipeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrRecipeNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ToggleReaction переключает отметку пользователя на рецепте: удаляет
// существующую независимо от типа, иначе вставляет новую.
func (s *Storage) ToggleReaction(ctx context.Context, recipeID, userEmail, reactionType string) error {
	const op = "storage.ToggleReaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM recipe_reactions WHERE recipe_id = $1 AND user_email = $2`,
		recipeID, userEmail)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO recipe_reactions (recipe_id, user_email, type)
			 VALUES ($1, $2, $3)`,
			recipeID, userEmail, reactionType)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountRecipes возвращает общее количество рецептов.
func (s *Storage) CountRecipes(ctx context.Context) (int, error) {
	const op = "storage.CountRecipes"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
