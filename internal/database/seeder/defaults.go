package seeder

func Defaults() []Seeder {
	return []Seeder{
		SettingsSeeder{},
		DomainsSeeder{},
		TestimonialsSeeder{},
	}
}
