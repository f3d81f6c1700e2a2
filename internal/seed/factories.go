// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"kindnest/internal/models"
	"kindnest/internal/repository"
	"kindnest/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests. Every interaction it
// creates goes through the counter reconciler so the denormalized counters
// stay equal to the relation rows.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *Factory) password() string {
	if f.opts.SkipBcrypt {
		return "Password123!abc"
	}
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Password123!abc"), bcrypt.DefaultCost)
	return string(hashed)
}

// spreadCreatedAt returns a timestamp scattered over the past opts.MaxDays.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// CreateParent constructs and persists a sample guardian profile.
func (f *Factory) CreateParent(overrides ...func(*models.Parent)) (*models.Parent, error) {
	parent := &models.Parent{
		Username:    fmt.Sprintf("%s_%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.Name(),
		Password:    f.password(),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(parent)
	}
	if err := f.db.Create(parent).Error; err != nil {
		return nil, err
	}
	return parent, nil
}

// CreateChild constructs and persists a sample child profile, optionally
// linked to a guardian.
func (f *Factory) CreateChild(parent *models.Parent, overrides ...func(*models.Child)) (*models.Child, error) {
	child := &models.Child{
		Username:    fmt.Sprintf("%s_%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		DisplayName: gofakeit.FirstName(),
		Password:    f.password(),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	if parent != nil {
		child.ParentID = &parent.ID
	}
	for _, override := range overrides {
		override(child)
	}
	if err := f.db.Create(child).Error; err != nil {
		return nil, err
	}
	return child, nil
}

// CreatePost constructs and persists a sample post for the given child.
func (f *Factory) CreatePost(child *models.Child, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		ChildID:   child.ID,
		Caption:   gofakeit.Sentence(8),
		ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		CreatedAt: f.spreadCreatedAt(),
	}
	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment from the given actor and reconciles the
// post's comment counter.
func (f *Factory) CreateComment(actor models.Actor, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PublicID: models.NewCommentPublicID(),
		PostID:   post.ID,
		Content:  gofakeit.Sentence(f.rng.Intn(12) + 3),
		IsActive: true,
	}
	switch actor.Kind {
	case models.ActorKindChild:
		id := actor.ID
		comment.ChildID = &id
	case models.ActorKindParent:
		id := actor.ID
		comment.ParentID = &id
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	ctx := context.Background()
	if _, err := repository.NewCounterRepository(f.db).ReconcileComments(ctx, post.ID); err != nil {
		return nil, err
	}
	reputation := repository.NewReputationRepository(f.db)
	if err := reputation.AddXP(ctx, post.ChildID, service.XPPerComment, "comment"); err != nil {
		return nil, err
	}
	if actor.IsChild() {
		if err := reputation.AdjustCommentsMade(ctx, actor.ID, 1); err != nil {
			return nil, err
		}
	}
	return comment, nil
}

// CreateLike persists a like from the given actor and reconciles the post's
// like counter. Duplicate pairs are silently skipped.
func (f *Factory) CreateLike(actor models.Actor, post *models.Post) error {
	ctx := context.Background()
	likes := repository.NewLikeRepository(f.db)
	if err := likes.Create(ctx, actor, post.ID); err != nil {
		return err
	}
	if _, err := repository.NewCounterRepository(f.db).ReconcileLikes(ctx, post.ID); err != nil {
		return err
	}
	reputation := repository.NewReputationRepository(f.db)
	if err := reputation.AddXP(ctx, post.ChildID, service.XPPerLike, "like"); err != nil {
		return err
	}
	return reputation.AdjustLikesReceived(ctx, post.ChildID, 1)
}

// CreateFollow persists a directed follow. Duplicate pairs are silently
// skipped; self-follows are refused.
func (f *Factory) CreateFollow(follower, target models.Actor) error {
	if follower == target {
		return models.NewSelfFollowError()
	}
	ctx := context.Background()
	created, err := repository.NewFollowRepository(f.db).Create(ctx, follower, target)
	if err != nil {
		return err
	}
	if created && target.IsChild() {
		return repository.NewReputationRepository(f.db).AddXP(ctx, target.ID, service.XPPerFollow, "follow")
	}
	return nil
}
