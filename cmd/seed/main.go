// Command main runs the database seeder for Kindnest.
package main

import (
	"flag"
	"log"

	"kindnest/internal/config"
	"kindnest/internal/database"
	"kindnest/internal/seed"
)

func main() {
	numParents := flag.Int("parents", 10, "Number of parents to create")
	numChildren := flag.Int("children", 30, "Number of children to create")
	numPosts := flag.Int("posts", 120, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (dev fast mode)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d parents, %d children, %d posts, clean=%v\n",
		*numParents, *numChildren, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumParents:  *numParents,
		NumChildren: *numChildren,
		NumPosts:    *numPosts,
		SkipBcrypt:  *skipBcrypt,
		ShouldClean: *shouldClean,
	}
	s := seed.NewSeeder(db, opts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Seed(opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
