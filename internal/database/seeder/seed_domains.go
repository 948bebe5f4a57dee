package seeder

import (
	"context"
	"fmt"

	"swadesh-intern/internal/database"
	"swadesh-intern/internal/domain/site"
)

var Domains = []site.Domain{
	{Slug: "web-development", Name: "Web Development", Description: "Master modern frontend and backend frameworks through project-based learning.", Skills: []string{"HTML", "CSS", "JavaScript", "Node.js"}},
	{Slug: "android-development", Name: "Android Development", Description: "Build native mobile applications that solve real-world problems using Java/Kotlin.", Skills: []string{"Java", "Kotlin", "Android SDK"}},
	{Slug: "data-science", Name: "Data Science", Description: "Deep dive into big data, statistical analysis, and predictive modeling techniques.", Skills: []string{"Python", "Pandas", "Statistics"}},
	{Slug: "java-programming", Name: "Java Programming", Description: "Develop robust, scalable enterprise-level applications with Java architecture.", Skills: []string{"Java", "OOP", "Collections"}},
	{Slug: "cpp-programming", Name: "C++ Programming", Description: "Master system-level programming and high-performance algorithmic logic.", Skills: []string{"C++", "STL", "Algorithms"}},
	{Slug: "python-programming", Name: "Python Programming", Description: "Harness the most versatile language for automation, scripting, and backend systems.", Skills: []string{"Python", "Scripting", "Automation"}},
	{Slug: "ui-ux-design", Name: "UI/UX Design", Description: "Design intuitive and aesthetic user interfaces with modern tools and psychology.", Skills: []string{"Figma", "Wireframing", "Prototyping"}},
	{Slug: "artificial-intelligence", Name: "Artificial Intelligence", Description: "Explore neural networks and machine learning algorithms to build the future.", Skills: []string{"Python", "Neural Networks", "TensorFlow"}},
	{Slug: "machine-learning", Name: "Machine Learning", Description: "Focus on algorithmic training, model deployment, and automated pattern recognition.", Skills: []string{"Python", "scikit-learn", "Model Deployment"}},
	{Slug: "flutter-developer", Name: "Flutter Developer", Description: "Build high-performance cross-platform apps with a single codebase using Dart.", Skills: []string{"Dart", "Flutter"}},
	{Slug: "reactjs-developer", Name: "ReactJS Developer", Description: "Specialize in modern component-based UI development and state management.", Skills: []string{"React", "JavaScript", "Redux"}},
	{Slug: "devops-engineering", Name: "DevOps Engineering", Description: "Master CI/CD pipelines, containerization with Docker/Kubernetes, and cloud infrastructure automation.", Skills: []string{"Docker", "Kubernetes", "CI/CD"}},
}

type DomainsSeeder struct{}

func (DomainsSeeder) Name() string { return "internship_domains" }

// Run upserts by slug so copy edits here reach existing databases.
func (DomainsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "internship_domains", "slug", "name", "description", "skills", "sort_order"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for i, d := range Domains {
		_, err := tx.Exec(ctx,
			`INSERT INTO internship_domains (slug, name, description, skills, sort_order)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (slug) DO UPDATE
			 SET name = EXCLUDED.name, description = EXCLUDED.description,
			     skills = EXCLUDED.skills, sort_order = EXCLUDED.sort_order`,
			d.Slug, d.Name, d.Description, d.Skills, i+1,
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
