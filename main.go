package main

import "github.com/samy1995/Mealwise/cmd/mealwise"

func main() {
	mealwise.Execute()
}
