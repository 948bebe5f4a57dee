package seeder

import (
	"context"
	"fmt"

	"swadesh-intern/internal/database"
	"swadesh-intern/internal/domain/site"
)

var Testimonials = []site.Testimonial{
	{Name: "Shikha Yadav", Role: "UI/UX Design Intern", Quote: "I joined with zero knowledge of Figma. Ideally, I expected just theory, but the mentorship helped me build a complete portfolio project by the end of the month."},
	{Name: "Aditya Verma", Role: "Full Stack Developer Intern", Quote: "Building end-to-end solutions taught me the importance of scalable architecture. I moved from writing isolated scripts to architecting robust, production-ready applications that handle real data efficiently."},
	{Name: "Aryan Maurya", Role: "Data Science Intern", Quote: "The best part was the project structure. It felt like working in a real company. SwadeshIntern is perfect if you want to test your skills before applying for jobs."},
	{Name: "Priya Singh", Role: "App Development Intern", Quote: "Supportive community and clear instructions. I built a functional weather app and learned how to deploy it. A genuine learning experience."},
	{Name: "Kaustubh Sharma", Role: "DevOps Intern", Quote: "Setting up automated CI/CD pipelines and managing cloud infrastructure was a game changer. I moved beyond basic scripts to deploying scalable applications in a real production environment."},
}

type TestimonialsSeeder struct{}

func (TestimonialsSeeder) Name() string { return "testimonials" }

func (TestimonialsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "testimonials", "name", "role", "quote", "sort_order"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for i, t := range Testimonials {
		_, err := tx.Exec(ctx,
			`INSERT INTO testimonials (name, role, quote, sort_order)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (name, role) DO UPDATE
			 SET quote = EXCLUDED.quote, sort_order = EXCLUDED.sort_order`,
			t.Name, t.Role, t.Quote, i+1,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
