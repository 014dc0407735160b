package model

const (
	FeedbackFormID        = "feedback-form"
	InternalTestingFormID = "internal-testing-signup"
)

// Feedback is the general feedback, bug report and feature request form.
var Feedback = Definition{
	ID:              FeedbackFormID,
	Title:           "Send us your feedback!",
	Description:     "We value your input. Please share your thoughts, report bugs, or suggest new features.",
	SubmitLabel:     "Send Feedback",
	SubmittingLabel: "Sending...",
	SuccessMessage:  "Thank you for your feedback! We've received your submission and will review it soon.",
	Fields: []Field{
		{
			Name:        "feedback",
			Label:       "Your Feedback",
			Kind:        KindTextArea,
			Required:    true,
			Placeholder: "Tell us what you think, report a bug, or suggest a feature...",
		},
		{
			Name:        "email",
			Label:       "Email (optional)",
			Kind:        KindEmail,
			Placeholder: "your.email@example.com - Leave empty for anonymous feedback",
			Help:        "Providing your email allows us to follow up with you if needed.",
		},
		{
			Name:  "platform",
			Label: "Platform(s) (optional - select all that apply)",
			Kind:  KindCheckboxes,
			Options: []Option{
				{Value: "ios", Label: "iOS"},
				{Value: "android", Label: "Android"},
				{Value: "web", Label: "Web"},
				{Value: "firewood", Label: "Firewood (CLI)"},
				{Value: "search-api", Label: "Search API"},
				{Value: "pinepods-api", Label: "PinePods API"},
				{Value: "desktop-clients", Label: "Desktop Clients"},
			},
			EmptyWire: "Not specified",
		},
		{
			Name:  "category",
			Label: "Category",
			Kind:  KindSelect,
			Options: []Option{
				{Value: "general", Label: "General Feedback"},
				{Value: "bug-report", Label: "Bug Report"},
				{Value: "feature-request", Label: "Feature Request"},
				{Value: "improvement", Label: "Improvement Suggestion"},
			},
			Default: Text("general"),
		},
		{
			Name:        "page",
			Label:       "Page/Feature (optional)",
			Kind:        KindText,
			Placeholder: "Which page or feature is this about?",
			Help:        "Help us locate the specific area you're referring to.",
		},
	},
}

// InternalTesting signs a user up for Play Console test builds.
var InternalTesting = Definition{
	ID:              InternalTestingFormID,
	Title:           "Join PinePods Internal Testing",
	Description:     "Get early access to new features and help us improve PinePods before public release!",
	SubmitLabel:     "Sign Up for Testing",
	SubmittingLabel: "Submitting...",
	SuccessMessage:  "Successfully signed up for internal testing! You'll receive an invitation email from Google Play Console within 24 hours.",
	Fields: []Field{
		{
			Name:        "name",
			Label:       "Full Name",
			Kind:        KindText,
			Required:    true,
			Placeholder: "Enter your full name",
		},
		{
			Name:        "email",
			Label:       "Email Address",
			Kind:        KindEmail,
			Required:    true,
			Placeholder: "Enter your email address",
			Help:        "This email will be used to send you the Google Play Console testing invitation.",
		},
	},
}

var catalog = []Definition{Feedback, InternalTesting}

// Forms returns every known form in display order.
func Forms() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a form by id.
func Lookup(id string) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
