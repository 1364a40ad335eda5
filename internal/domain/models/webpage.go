// internal/domain/models/webpage.go
package models

import "time"

const WebPagePublished = "published"

var WebPageStatuses = []string{"draft", WebPagePublished, "archived"}

// WebPage is an editable site page addressed by slug. Content is stored
// sanitized.
type WebPage struct {
	Meta            `bson:",inline"`
	Slug            string     `bson:"slug" json:"slug"`
	Title           string     `bson:"title" json:"title"`
	Content         string     `bson:"content" json:"content"`
	MetaDescription string     `bson:"meta_description,omitempty" json:"metaDescription,omitempty"`
	Status          string     `bson:"status" json:"status"`
	PublishedAt     *time.Time `bson:"published_at,omitempty" json:"publishedAt,omitempty"`
}

type WebPageInput struct {
	Slug            string `json:"slug" validate:"required,max=100,slug" label:"Slug"`
	Title           string `json:"title" validate:"required,max=300" label:"Title"`
	Content         string `json:"content" validate:"max=200000" label:"Content"`
	MetaDescription string `json:"metaDescription" validate:"max=300" label:"Meta description"`
	Status          string `json:"status" validate:"omitempty,oneof=draft published archived" label:"Status"`
}

type WebPageUpdate struct {
	Slug            *string `bson:"slug,omitempty" json:"slug" validate:"omitempty,max=100,slug" label:"Slug"`
	Title           *string `bson:"title,omitempty" json:"title" validate:"omitempty,min=1,max=300" label:"Title"`
	Content         *string `bson:"content,omitempty" json:"content" validate:"omitempty,max=200000" label:"Content"`
	MetaDescription *string `bson:"meta_description,omitempty" json:"metaDescription" validate:"omitempty,max=300" label:"Meta description"`
	Status          *string `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=draft published archived" label:"Status"`
}

// SlugInput looks a page up by slug.
type SlugInput struct {
	Slug string `json:"slug" validate:"required,max=100,slug" label:"Slug"`
}
