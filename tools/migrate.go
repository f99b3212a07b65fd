package main

import (
	"fmt"
	"os"

	"tripdesk/database"
)

func main() {
	fmt.Println("🚀 Running database migrations...")
	if _, err := database.InitDB(); err != nil {
		fmt.Printf("❌ Migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Migration completed successfully!")
}
