// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"findtogether/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
	AppendReport(ctx context.Context, postID string, report *models.Report) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.Reports == nil {
		post.Reports = []models.Report{}
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Reports", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if post.Reports == nil {
		post.Reports = []models.Report{}
	}
	return &post, nil
}

// List returns every post, newest first, with reports in append order.
// Full-collection scan; pagination is deliberately absent at this scale.
func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Reports", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if p.Reports == nil {
			p.Reports = []models.Report{}
		}
	}
	return posts, nil
}

// Delete removes the post and its embedded reports irrevocably.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("post_id = ?", id).Delete(&models.Report{}).Error
	})
}

// AppendReport attaches a report to a post. The seq counter is assigned
// inside the transaction so the reports sequence only ever grows and keeps
// append order regardless of sighting times.
func (r *postRepository) AppendReport(ctx context.Context, postID string, report *models.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, "id = ?", postID).Error; err != nil {
			return err
		}

		var maxSeq int
		if err := tx.Model(&models.Report{}).
			Where("post_id = ?", postID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}

		if report.ID == "" {
			report.ID = uuid.NewString()
		}
		if report.CreatedAt.IsZero() {
			report.CreatedAt = time.Now().UTC()
		}
		report.PostID = &post.ID
		report.Seq = maxSeq + 1

		return tx.Create(report).Error
	})
}
