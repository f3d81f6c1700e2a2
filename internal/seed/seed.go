// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"kindnest/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumParents  int
	NumChildren int
	NumPosts    int
	MaxDays     int
	SkipBcrypt  bool
	ShouldClean bool
}

// Seeder populates the database with a plausible social mesh: guardians,
// children, posts, and the interactions the ledger tracks.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder over the given database handle.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll truncates every seeded table.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE follows, likes, comments, posts, children, parents RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// Seed populates the database per the seeder's options. Every interaction is
// created through the same repositories the ledger uses, so counters and
// reputation stay consistent with the rows.
func (s *Seeder) Seed(opts Options) error {
	parents := make([]*models.Parent, 0, opts.NumParents)
	for i := 0; i < opts.NumParents; i++ {
		parent, err := s.factory.CreateParent()
		if err != nil {
			return fmt.Errorf("failed to create parent: %w", err)
		}
		parents = append(parents, parent)
	}
	log.Printf("%d parents created", len(parents))

	children := make([]*models.Child, 0, opts.NumChildren)
	for i := 0; i < opts.NumChildren; i++ {
		var parent *models.Parent
		if len(parents) > 0 {
			parent = parents[i%len(parents)]
		}
		child, err := s.factory.CreateChild(parent)
		if err != nil {
			return fmt.Errorf("failed to create child: %w", err)
		}
		children = append(children, child)
	}
	log.Printf("%d children created", len(children))

	if len(children) == 0 {
		return nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		child := children[i%len(children)]
		post, err := s.factory.CreatePost(child)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("%d posts created", len(posts))

	if err := s.seedInteractions(children, parents, posts); err != nil {
		return err
	}

	log.Println("Database seeding completed successfully")
	return nil
}

func (s *Seeder) seedInteractions(children []*models.Child, parents []*models.Parent, posts []*models.Post) error {
	liked := 0
	commented := 0
	for i, post := range posts {
		// A couple of likes and comments per post, skipping the owner now
		// and then so some posts stay untouched.
		for j := 0; j < (i%3)+1; j++ {
			child := children[(i+j+1)%len(children)]
			actor := models.ChildActor(child.ID)
			if err := s.factory.CreateLike(actor, post); err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			liked++
		}
		if i%2 == 0 {
			commenter := models.ChildActor(children[(i+1)%len(children)].ID)
			if len(parents) > 0 && i%4 == 0 {
				commenter = models.ParentActor(parents[i%len(parents)].ID)
			}
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			commented++
		}
	}
	log.Printf("%d likes, %d comments created", liked, commented)

	follows := 0
	for i, child := range children {
		target := children[(i+1)%len(children)]
		if target.ID == child.ID {
			continue
		}
		if err := s.factory.CreateFollow(models.ChildActor(child.ID), models.ChildActor(target.ID)); err != nil {
			return fmt.Errorf("failed to create follow: %w", err)
		}
		follows++
	}
	for i, parent := range parents {
		target := children[i%len(children)]
		if err := s.factory.CreateFollow(models.ParentActor(parent.ID), models.ChildActor(target.ID)); err != nil {
			return fmt.Errorf("failed to create follow: %w", err)
		}
		follows++
	}
	log.Printf("%d follows created", follows)

	return nil
}
