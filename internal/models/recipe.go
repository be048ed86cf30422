package models

// Reaction — эмоциональная отметка пользователя на рецепте.
// У пользователя может быть не более одной отметки на рецепт.
type Reaction struct {
	User string `json:"user"`
	Type string `json:"type"`
}

// Recipe описывает документ рецепта вместе со списком оплативших просмотр
// и отметками. Details и YoutubeVideoCode опускаются в списочных выдачах.
type Recipe struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Image            string     `json:"image"`
	Details          string     `json:"details,omitempty"`
	YoutubeVideoCode string     `json:"youtubeVideoCode,omitempty"`
	Country          string     `json:"country"`
	Category         string     `json:"category"`
	CreatorEmail     string     `json:"creatorEmail"`
	WatchCount       int        `json:"watchCount"`
	PurchasedBy      []string   `json:"purchased_by"`
	Reactions        []Reaction `json:"reactions"`
}

// DummyRecipe — тело запроса на создание рецепта.
type DummyRecipe struct {
	Name             string `json:"name" validate:"required"`
	Image            string `json:"image" validate:"required"`
	Details          string `json:"details" validate:"required"`
	YoutubeVideoCode string `json:"youtubeVideoCode" validate:"required"`
	Country          string `json:"country" validate:"required"`
	Category         string `json:"category" validate:"required"`
	CreatorEmail     string `json:"creatorEmail" validate:"required,email"`
}

// RecipeFilter — параметры поиска и пагинации списка рецептов.
// Page нумеруется с единицы.
type RecipeFilter struct {
	Search   string
	Category string
	Country  string
	Page     int
	Limit    int
}
