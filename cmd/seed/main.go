package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/recipebox/recipebox/config"
	"github.com/recipebox/recipebox/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@recipebox.dev"
	password := "password123"
	name := "Demo Cook"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	type sample struct {
		title       string
		timeMinutes int
		price       string
		description string
		tags        []string
		ingredients []string
	}
	samples := []sample{
		{
			title:       "Weeknight Dal",
			timeMinutes: 35,
			price:       "4.50",
			description: "Red lentils simmered with turmeric and finished with a cumin tadka.",
			tags:        []string{"Vegan", "Dinner"},
			ingredients: []string{"Red Lentils", "Turmeric", "Cumin"},
		},
		{
			title:       "Shakshuka",
			timeMinutes: 25,
			price:       "6.00",
			description: "Eggs poached in a spiced tomato and pepper sauce.",
			tags:        []string{"Breakfast", "Vegetarian"},
			ingredients: []string{"Eggs", "Tomatoes", "Bell Pepper"},
		},
		{
			title:       "Miso Ramen",
			timeMinutes: 50,
			price:       "8.75",
			description: "Miso broth, fresh noodles, soft egg, charred corn.",
			tags:        []string{"Dinner"},
			ingredients: []string{"Miso Paste", "Ramen Noodles", "Eggs", "Corn"},
		},
	}

	for _, s := range samples {
		var recipeID string
		err = db.QueryRow(`
			INSERT INTO recipes (user_id, title, time_minutes, price, description)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, userID, s.title, s.timeMinutes, s.price, s.description).Scan(&recipeID)
		if err != nil {
			log.Fatalf("failed to seed recipe %q: %v", s.title, err)
		}

		for _, tag := range s.tags {
			var tagID string
			if err := db.QueryRow(`
				INSERT INTO tags (user_id, name)
				VALUES ($1, $2)
				ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			`, userID, tag).Scan(&tagID); err != nil {
				log.Fatalf("failed to seed tag %q: %v", tag, err)
			}
			if _, err := db.Exec(`
				INSERT INTO recipe_tags (recipe_id, tag_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, recipeID, tagID); err != nil {
				log.Fatalf("failed to link tag %q: %v", tag, err)
			}
		}

		for _, ing := range s.ingredients {
			var ingredientID string
			if err := db.QueryRow(`
				INSERT INTO ingredients (user_id, name)
				VALUES ($1, $2)
				ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			`, userID, ing).Scan(&ingredientID); err != nil {
				log.Fatalf("failed to seed ingredient %q: %v", ing, err)
			}
			if _, err := db.Exec(`
				INSERT INTO recipe_ingredients (recipe_id, ingredient_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, recipeID, ingredientID); err != nil {
				log.Fatalf("failed to link ingredient %q: %v", ing, err)
			}
		}
		fmt.Printf("seeded recipe: %s\n", s.title)
	}
}
