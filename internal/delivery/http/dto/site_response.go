package dto

import (
	"swadesh-intern/internal/domain/account"
	"swadesh-intern/internal/usecase"
)

type DomainResponse struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

type TestimonialResponse struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Quote string `json:"quote"`
}

type LandingResponse struct {
	Maintenance  bool                  `json:"maintenance"`
	Screen       string                `json:"screen"`
	Title        string                `json:"title,omitempty"`
	Message      string                `json:"message,omitempty"`
	Domains      []DomainResponse      `json:"domains,omitempty"`
	Testimonials []TestimonialResponse `json:"testimonials,omitempty"`
}

func NewLandingResponse(l usecase.Landing) LandingResponse {
	out := LandingResponse{Maintenance: l.Maintenance, Screen: l.Screen, Title: l.Title, Message: l.Message}
	for _, d := range l.Domains {
		out.Domains = append(out.Domains, DomainResponse{Slug: d.Slug, Name: d.Name, Description: d.Description, Skills: d.Skills})
	}
	for _, t := range l.Testimonials {
		out.Testimonials = append(out.Testimonials, TestimonialResponse{Name: t.Name, Role: t.Role, Quote: t.Quote})
	}
	return out
}

type AdminResponse struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	PhotoURL  string `json:"photo_url,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
}

func NewAdminResponse(a account.Admin) AdminResponse {
	return AdminResponse{
		UserID:    a.UserID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		IsActive:  a.IsActive,
		PhotoURL:  a.PhotoURL,
		CreatedBy: a.CreatedBy,
	}
}
