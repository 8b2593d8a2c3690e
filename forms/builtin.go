package forms

// BusinessIntakeID identifies the built-in business onboarding form.
const BusinessIntakeID = "business-intake"

// BusinessIntake returns the built-in five-step business onboarding form.
// The customBusinessType field only appears (and is only required) while
// businessType is set to "Other".
func BusinessIntake() FormDefinition {
	return FormDefinition{
		ID:      BusinessIntakeID,
		Name:    "Business Onboarding",
		Version: "1.0.0",
		Steps: []StepDefinition{
			{
				Title: "Business Info",
				Fields: []FieldDefinition{
					{Name: "businessName", Label: "Business Name", Placeholder: "My Company", Required: true},
					{Name: "location", Label: "Location", Placeholder: "City, State", Required: true},
					{Name: "branch", Label: "Branch", Placeholder: "Branch Name", Required: true},
				},
			},
			{
				Title: "Business Type & Count",
				Fields: []FieldDefinition{
					{
						Name:     "businessType",
						Label:    "Business Type",
						Kind:     KindSelect,
						Options:  []string{"Retail", "Restaurant", "Service", "Tech", "Other"},
						Required: true,
					},
					{
						Name:        "customBusinessType",
						Label:       "Custom Business Type",
						Placeholder: "Specify your type",
						Required:    true,
						VisibleWhen: &Condition{Field: "businessType", Equals: "Other"},
					},
					{
						Name:     "branchCount",
						Label:    "Branch Count",
						Kind:     KindSelect,
						Options:  []string{"1", "2-5", "6-10", "11+"},
						Required: true,
					},
				},
			},
			{
				Title: "Contact Info",
				Fields: []FieldDefinition{
					{Name: "contactEmail", Label: "Email", Kind: KindEmail, Placeholder: "you@example.com", Required: true},
					{Name: "contactPhone", Label: "Phone", Kind: KindTel, Placeholder: "+1 234 567 890", Required: true},
					{Name: "whatsapp", Label: "WhatsApp", Kind: KindTel, Placeholder: "WhatsApp number"},
				},
			},
			{
				Title: "Social & Web",
				Fields: []FieldDefinition{
					{Name: "secondaryEmail", Label: "Secondary Email", Placeholder: "team@example.com"},
					{Name: "facebook", Label: "Facebook", Placeholder: "https://facebook.com/yourpage"},
					{Name: "instagram", Label: "Instagram", Placeholder: "https://instagram.com/yourprofile"},
					{Name: "linkedin", Label: "LinkedIn", Placeholder: "https://linkedin.com/company"},
					{Name: "website", Label: "Website", Placeholder: "https://yourcompany.com"},
				},
			},
			{
				Title: "About",
				Fields: []FieldDefinition{
					{Name: "description", Label: "Short Description", Kind: KindTextarea, Placeholder: "Describe your business...", Required: true},
				},
			},
		},
	}
}

// RegisterBuiltins installs the built-in form definitions into the registry.
func RegisterBuiltins(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(BusinessIntake())
}
