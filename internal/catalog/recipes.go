package catalog

// Nutrition holds the catalog's macro strings as published, e.g. "12g".
type Nutrition struct {
	Protein string `json:"protein"`
	Carbs   string `json:"carbs"`
	Fat     string `json:"fat"`
	Fiber   string `json:"fiber"`
}

// Recipe is a read-only catalog entry.
type Recipe struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Image           string    `json:"image"`
	Calories        int       `json:"calories"`
	PrepTime        string    `json:"prep_time"`
	Diet            string    `json:"diet"`
	TimeCategory    string    `json:"time_category"`
	CalorieCategory string    `json:"calorie_category"`
	Ingredients     []string  `json:"ingredients"`
	Nutrition       Nutrition `json:"nutrition"`
	Allergens       []string  `json:"allergens,omitempty"`
}

var recipes = []Recipe{
	{
		ID:              1,
		Name:            "Avocado Toast",
		Image:           "https://cdn.loveandlemons.com/wp-content/uploads/2020/01/avocado-toast-480x270.jpg",
		Calories:        350,
		PrepTime:        "10 mins",
		Diet:            DietVegetarian,
		TimeCategory:    TimeQuick,
		CalorieCategory: "medium",
		Ingredients:     []string{"Bread", "Avocado", "Eggs", "Salt", "Pepper"},
		Nutrition:       Nutrition{Protein: "12g", Carbs: "35g", Fat: "20g", Fiber: "8g"},
		Allergens:       []string{"gluten", "eggs"},
	},
	{
		ID:              2,
		Name:            "Greek Salad",
		Image:           "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Calories:        250,
		PrepTime:        "15 mins",
		Diet:            DietVegetarian,
		TimeCategory:    TimeQuick,
		CalorieCategory: "low",
		Ingredients:     []string{"Cucumber", "Tomatoes", "Feta", "Olives", "Olive Oil"},
		Nutrition:       Nutrition{Protein: "8g", Carbs: "15g", Fat: "18g", Fiber: "6g"},
		Allergens:       []string{"dairy"},
	},
	{
		ID:              3,
		Name:            "Grilled Salmon",
		Image:           "https://res.cloudinary.com/hksqkdlah/image/upload/41765-sfs-grilled-salmon-10664.jpg",
		Calories:        450,
		PrepTime:        "25 mins",
		Diet:            DietPaleo,
		TimeCategory:    TimeMedium,
		CalorieCategory: "medium",
		Ingredients:     []string{"Salmon", "Lemon", "Dill", "Olive Oil", "Salt", "Pepper"},
		Nutrition:       Nutrition{Protein: "35g", Carbs: "5g", Fat: "28g", Fiber: "2g"},
	},
	{
		ID:              4,
		Name:            "Quinoa Bowl",
		Image:           "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
		Calories:        400,
		PrepTime:        "20 mins",
		Diet:            DietVegan,
		TimeCategory:    TimeMedium,
		CalorieCategory: "medium",
		Ingredients:     []string{"Quinoa", "Chickpeas", "Avocado", "Cucumber", "Tomatoes", "Lemon"},
		Nutrition:       Nutrition{Protein: "15g", Carbs: "45g", Fat: "18g", Fiber: "12g"},
	},
	{
		ID:              5,
		Name:            "Vegan Buddha Bowl",
		Image:           "https://cdn.loveandlemons.com/wp-content/uploads/2020/06/IMG_25456.jpg",
		Calories:        420,
		PrepTime:        "20 mins",
		Diet:            DietVegan,
		TimeCategory:    TimeMedium,
		CalorieCategory: "medium",
		Ingredients:     []string{"Quinoa", "Chickpeas", "Sweet Potato", "Spinach", "Tahini"},
		Nutrition:       Nutrition{Protein: "16g", Carbs: "60g", Fat: "12g", Fiber: "10g"},
	},
	{
		ID:              6,
		Name:            "Chicken Caesar Salad",
		Image:           "https://cdn.apartmenttherapy.info/image/upload/f_jpg,q_auto:eco,c_fill,g_auto,w_1500,ar_1:1/k%2FPhoto%2FRecipes%2F2024-04-chicken-caesar-salad%2Fchicken-caesar-salad-653",
		Calories:        350,
		PrepTime:        "15 mins",
		Diet:            DietKeto,
		TimeCategory:    TimeQuick,
		CalorieCategory: "medium",
		Ingredients:     []string{"Chicken Breast", "Romaine", "Parmesan", "Caesar Dressing", "Croutons"},
		Nutrition:       Nutrition{Protein: "30g", Carbs: "10g", Fat: "20g", Fiber: "3g"},
		Allergens:       []string{"dairy", "gluten", "eggs"},
	},
	{
		ID:              7,
		Name:            "Egg Muffins",
		Image:           "https://easyfamilyrecipes.com/wp-content/uploads/2023/03/Ham-and-Cheese-Egg-Muffins-Recipe.jpg",
		Calories:        120,
		PrepTime:        "25 mins",
		Diet:            DietKeto,
		TimeCategory:    TimeQuick,
		CalorieCategory: "low",
		Ingredients:     []string{"Eggs", "Spinach", "Bell Pepper", "Cheese"},
		Nutrition:       Nutrition{Protein: "8g", Carbs: "2g", Fat: "8g", Fiber: "1g"},
		Allergens:       []string{"eggs", "dairy"},
	},
	{
		ID:              8,
		Name:            "Vegetarian Chili",
		Image:           "https://www.tasteofhome.com/wp-content/uploads/2018/01/Vegetarian-Chili-Ole-_EXPS_THESCODR22_138856_DR_12_15_2b.jpg",
		Calories:        300,
		PrepTime:        "40 mins",
		Diet:            DietVegetarian,
		TimeCategory:    TimeLong,
		CalorieCategory: "medium",
		Ingredients:     []string{"Beans", "Tomatoes", "Corn", "Bell Pepper", "Onion"},
		Nutrition:       Nutrition{Protein: "12g", Carbs: "50g", Fat: "5g", Fiber: "14g"},
	},
	{
		ID:              9,
		Name:            "Fruit & Nut Snack Bars",
		Image:           "https://wholeandheavenlyoven.com/wp-content/uploads/2015/08/fruit-n-nut-bars6.jpg",
		Calories:        180,
		PrepTime:        "10 mins",
		Diet:            DietVegan,
		TimeCategory:    TimeQuick,
		CalorieCategory: "low",
		Ingredients:     []string{"Oats", "Dates", "Almonds", "Peanut Butter", "Maple Syrup"},
		Nutrition:       Nutrition{Protein: "4g", Carbs: "28g", Fat: "6g", Fiber: "3g"},
		Allergens:       []string{"nuts", "gluten"},
	},
}

// ingredientCategories maps lowercased ingredient names to shopping categories.
var ingredientCategories = map[string]string{
	"chicken breast": CategoryMeat,
	"salmon":         CategoryMeat,

	"avocado":      CategoryVegetables,
	"cucumber":     CategoryVegetables,
	"tomatoes":     CategoryVegetables,
	"olives":       CategoryVegetables,
	"dill":         CategoryVegetables,
	"sweet potato": CategoryVegetables,
	"spinach":      CategoryVegetables,
	"romaine":      CategoryVegetables,
	"bell pepper":  CategoryVegetables,
	"onion":        CategoryVegetables,
	"corn":         CategoryVegetables,
	"beans":        CategoryVegetables,
	"chickpeas":    CategoryVegetables,

	"lemon": CategoryFruits,
	"dates": CategoryFruits,

	"bread":    CategoryGrains,
	"quinoa":   CategoryGrains,
	"oats":     CategoryGrains,
	"croutons": CategoryGrains,

	"eggs":     CategoryDairy,
	"feta":     CategoryDairy,
	"parmesan": CategoryDairy,
	"cheese":   CategoryDairy,
}
