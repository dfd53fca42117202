package database

import (
	"gorm.io/gorm"

	"github.com/sandeepramdas/tether/internal/domain"
	"github.com/sandeepramdas/tether/internal/service"
	"github.com/sandeepramdas/tether/pkg/utils"
)

// 默认技能目录，按市场大类分组
var defaultSkillCatalog = map[string][]string{
	"Home Services": {
		"Plumbing", "Electrical Work", "Carpentry", "Painting", "Cleaning",
		"HVAC", "Landscaping", "Roofing", "Flooring", "Window Installation",
	},
	"Professional Services": {
		"Web Development", "Mobile App Development", "Graphic Design", "UI/UX Design",
		"Content Writing", "Copywriting", "Photography", "Videography", "Video Editing",
		"Social Media Marketing", "SEO Services", "Accounting", "Legal Consulting",
		"Business Consulting",
	},
	"Personal Services": {
		"Personal Training", "Yoga Instruction", "Life Coaching", "Career Coaching",
		"Tutoring", "Music Lessons", "Dance Classes", "Pet Sitting", "Dog Walking",
		"Massage Therapy", "Hair Styling", "Makeup Artistry",
	},
	"Event Services": {
		"Event Planning", "Catering", "DJ Services", "Live Music", "Wedding Photography",
		"Event Photography", "Decoration", "MC/Host Services",
	},
	"Transportation": {
		"Ride Services", "Delivery Services", "Moving Services", "Courier Services",
	},
	"Repair & Maintenance": {
		"Computer Repair", "Phone Repair", "Appliance Repair", "Auto Repair",
		"Bike Repair", "Furniture Repair",
	},
}

// SeedSkills 幂等灌入默认技能目录（按 slug 去重，已有的不动）
func SeedSkills(db *gorm.DB) error {
	for _, names := range defaultSkillCatalog {
		for _, name := range names {
			sk := domain.Skill{
				ID:       utils.NewID(),
				Name:     name,
				Slug:     service.Slugify(name),
				Level:    domain.SkillLevelCategory,
				IsActive: true,
			}
			err := db.Where(domain.Skill{Slug: sk.Slug}).
				Attrs(sk).
				FirstOrCreate(&domain.Skill{}).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}
