// server/internal/models/catalog.go
package models

type SeasonalPackage struct {
	Name       string   `json:"name"`
	Highlights []string `json:"highlights"`
}

type ServiceCategory struct {
	Category         string            `json:"category"`
	Focus            string            `json:"focus"`
	Services         []string          `json:"services"`
	SeasonalPackages []SeasonalPackage `json:"seasonalPackages,omitempty"`
}

// ServiceCatalog is the static list served by GET /api/services.
var ServiceCatalog = []ServiceCategory{
	{
		Category: "Pest Control",
		Focus:    "Residential & commercial vector control",
		Services: []string{
			"Mosquito & Dengue Control (fogging, spraying, larvicide)",
			"Termite Control (pre/post-construction)",
			"Rodent Control (trapping, poisoning, exclusion)",
			"Insect Control (cockroach, bed bug, ant, fly)",
			"Bird Control (nest removal, deterrent installation)",
		},
	},
	{
		Category: "Sanitation & Cleaning",
		Focus:    "Infrastructure hygiene and deep cleaning",
		Services: []string{
			"Gutter Cleaning (residential & commercial)",
			"Water Tank Cleaning (overhead & underground)",
			"Septic Tank Cleaning (emptying & disinfecting)",
			"General Deep Cleaning (post-construction, seasonal, move-in/out)",
		},
	},
	{
		Category: "Specialized Health",
		Focus:    "Preventive disinfection & indoor air quality",
		Services: []string{
			"Disinfection (COVID-19, bacterial, viral)",
			"Air Quality Services (mold remediation, duct cleaning)",
			"Waste Management (temporary disposal solutions)",
		},
	},
	{
		Category: "Agriculture",
		Focus:    "Crop-specific pest control and farm protection",
		Services: []string{
			"Crop-Specific Pest Control & IPM",
			"Farm Size & Topography Adaptation",
			"Outbreak Alerts & Rapid Response",
			"Soil Health & Fumigation",
			"Storage & Post-Harvest Protection",
		},
		SeasonalPackages: []SeasonalPackage{
			{
				Name: "Kharif Ready Package (Apr-Jun)",
				Highlights: []string{
					"Pre-monsoon pest prevention",
					"Soil preparation & seed treatment",
					"Seasonal treatment calendar",
				},
			},
			{
				Name: "Rabi Protection Package (Oct-Dec)",
				Highlights: []string{
					"Winter pest control & storage prep",
					"Equipment maintenance",
					"Emergency spraying readiness",
				},
			},
			{
				Name: "Orchard Care Program",
				Highlights: []string{
					"Fruit fly management & tree injections",
					"Beneficial insect release",
					"Harvest protection planning",
				},
			},
		},
	},
}
