package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"catalog-sync/core/config"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/courses"
	"catalog-sync/feature/hubdb"

	"go.uber.org/zap"
)

// Prints the row a course would be written as next to the row currently stored in HubDB.
// Usage: go run ./cmd/debug_course <url_key>
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_course <url_key>")
	}
	key := os.Args[1]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	source, err := catalog.NewClient(cfg.Catalog, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}

	hub, err := hubdb.NewClient(cfg.HubSpot, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	fmt.Println("=== CATALOG ===")
	list, err := source.FetchAll(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total courses loaded: %d\n", len(list))

	var course *catalog.Course
	for i := range list {
		if list[i].URLKey == key {
			course = &list[i]
			break
		}
	}
	if course == nil {
		fmt.Printf("NOT FOUND in catalog: %s\n", key)
	} else {
		printJSON("Transformed row", courses.NewTransformer().Transform(*course))
	}

	fmt.Println("\n=== HUBDB ===")
	row, err := hub.FindRowByKey(ctx, cfg.HubSpot.TableID, key)
	if err != nil {
		log.Fatal(err)
	}
	if row == nil {
		fmt.Printf("NOT FOUND in table %s: %s\n", cfg.HubSpot.TableID, key)
		return
	}
	printJSON("Stored row "+row.ID, row)
}

func printJSON(title string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s:\n%s\n", title, data)
}
