package site

import "context"

type Domain struct {
	Slug        string
	Name        string
	Description string
	Skills      []string
}

type Testimonial struct {
	Name  string
	Role  string
	Quote string
}

type Repository interface {
	ListDomains(ctx context.Context) ([]Domain, error)
	ListTestimonials(ctx context.Context) ([]Testimonial, error)
}
