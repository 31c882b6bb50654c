// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gramly/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeder populates the database with demo data.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder returns a Seeder bound to the given DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes every seeded table, children first.
func (s *Seeder) ClearAll() error {
	log.Println("Cleaning database...")
	for _, table := range []string{"comments", "likes", "follows", "posts", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// SeedUsers creates n verified users plus one unverified straggler. All
// users share the password "password123".
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n+1)
	for i := 0; i < n; i++ {
		person := gofakeit.Person()
		users = append(users, &models.User{
			Firstname: person.FirstName,
			Lastname:  person.LastName,
			Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:     gofakeit.Email(),
			Mobile:    fmt.Sprintf("+1%d", gofakeit.Number(2000000000, 9999999999)),
			Password:  string(hashed),
			Gender:    person.Gender,
			Bio:       gofakeit.Sentence(10),
			AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
			Verified:  true,
		})
	}
	// One account stuck mid-verification, for exercising the code flow.
	users = append(users, &models.User{
		Firstname: "Pat",
		Lastname:  "Pending",
		Username:  "pat_pending",
		Email:     "pat.pending@example.com",
		Mobile:    "+15550000001",
		Password:  string(hashed),
		OTP:       123456,
	})

	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	log.Printf("Created %d users", len(users))
	return users, nil
}

// SeedGraph wires random follow edges, a handful per user.
func (s *Seeder) SeedGraph(users []*models.User) error {
	var edges []models.Follow
	for _, u := range users {
		for i := 0; i < 3+s.r.Intn(5); i++ {
			target := users[s.r.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			edges = append(edges, models.Follow{FollowerID: u.ID, FolloweeID: target.ID})
		}
	}
	if len(edges) == 0 {
		return nil
	}
	// Random pairs collide; the unique index absorbs the duplicates.
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}
	log.Printf("Created %d follow edges", len(edges))
	return nil
}

// SeedPosts creates n posts with likes and comments scattered across users.
func (s *Seeder) SeedPosts(users []*models.User, n int) error {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.r.Intn(len(users))]
		created := time.Now().Add(-time.Duration(s.r.Intn(90*24)) * time.Hour)
		posts = append(posts, &models.Post{
			Caption:   gofakeit.Sentence(8),
			ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
			UserID:    author.ID,
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
	if err := s.db.Create(&posts).Error; err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	var likes []models.Like
	var comments []models.Comment
	for _, p := range posts {
		for i := 0; i < s.r.Intn(8); i++ {
			likes = append(likes, models.Like{
				UserID: users[s.r.Intn(len(users))].ID,
				PostID: p.ID,
			})
		}
		for i := 0; i < s.r.Intn(4); i++ {
			comments = append(comments, models.Comment{
				Content: gofakeit.Sentence(6),
				UserID:  users[s.r.Intn(len(users))].ID,
				PostID:  p.ID,
			})
		}
	}
	if len(likes) > 0 {
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&likes).Error; err != nil {
			return fmt.Errorf("seed likes: %w", err)
		}
	}
	if len(comments) > 0 {
		if err := s.db.Create(&comments).Error; err != nil {
			return fmt.Errorf("seed comments: %w", err)
		}
	}

	log.Printf("Created %d posts, %d likes, %d comments", len(posts), len(likes), len(comments))
	return nil
}
