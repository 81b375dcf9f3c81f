package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Author 는 응답에 붙는 작성자 요약이다. DB 에는 저장하지 않는다.
type Author struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Content 는 Project, Blog, Story, Post 가 공유하는 동작이다.
type Content interface {
	AuthorID() primitive.ObjectID
	SetAuthorID(id primitive.ObjectID)
	SetAuthor(a *Author)
	IsPublished() bool
}

var (
	_ Content = (*Project)(nil)
	_ Content = (*Blog)(nil)
	_ Content = (*Story)(nil)
	_ Content = (*Post)(nil)
)

func (p *Project) AuthorID() primitive.ObjectID      { return p.CreatedByID }
func (p *Project) SetAuthorID(id primitive.ObjectID) { p.CreatedByID = id }
func (p *Project) SetAuthor(a *Author)               { p.CreatedBy = a }
func (p *Project) IsPublished() bool                 { return p.Published }

func (b *Blog) AuthorID() primitive.ObjectID      { return b.CreatedByID }
func (b *Blog) SetAuthorID(id primitive.ObjectID) { b.CreatedByID = id }
func (b *Blog) SetAuthor(a *Author)               { b.CreatedBy = a }
func (b *Blog) IsPublished() bool                 { return b.Published }

func (s *Story) AuthorID() primitive.ObjectID      { return s.CreatedByID }
func (s *Story) SetAuthorID(id primitive.ObjectID) { s.CreatedByID = id }
func (s *Story) SetAuthor(a *Author)               { s.CreatedBy = a }
func (s *Story) IsPublished() bool                 { return s.Published }

func (p *Post) AuthorID() primitive.ObjectID      { return p.CreatedByID }
func (p *Post) SetAuthorID(id primitive.ObjectID) { p.CreatedByID = id }
func (p *Post) SetAuthor(a *Author)               { p.CreatedBy = a }
func (p *Post) IsPublished() bool                 { return p.Published }
