package dto

// DashboardStats summarises table sizes for the admin landing page.
type DashboardStats struct {
	Programs             int            `json:"programs"`
	ActivePrograms       int            `json:"activePrograms"`
	News                 int            `json:"news"`
	Graduates            int            `json:"graduates"`
	Gallery              int            `json:"gallery"`
	Sliders              int            `json:"sliders"`
	OrganizationMembers  int            `json:"organizationMembers"`
	Registrations        int            `json:"registrations"`
	RegistrationsByState map[string]int `json:"registrationsByStatus"`
	ContactMessages      int            `json:"contactMessages"`
	NewContactMessages   int            `json:"newContactMessages"`
}
