package roster

import "example.com/roster/internal/domain"

// DefaultSeed returns the fixed Mergington High School activity catalog the
// service is initialized with at startup.
func DefaultSeed() []domain.Activity {
	return []domain.Activity{
		{
			Name:            "Basketball",
			Description:     "Learn basketball skills and compete in interschool tournaments",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"alex@mergington.edu", "jordan@mergington.edu"},
		},
		{
			Name:            "Tennis Club",
			Description:     "Practice tennis techniques and play friendly matches",
			Schedule:        "Tuesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
		},
		{
			Name:            "Debate Team",
			Description:     "Develop argumentation skills and compete in debate tournaments",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 16,
			Participants:    []string{"charlotte@mergington.edu", "amelia@mergington.edu"},
		},
		{
			Name:            "Science Olympiad",
			Description:     "Prepare for science competitions with hands-on experiments",
			Schedule:        "Saturdays, 10:00 AM - 12:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"ethan@mergington.edu", "noah@mergington.edu"},
		},
		{
			Name:            "Drama Club",
			Description:     "Act, direct, and produce school theater performances",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"grace@mergington.edu", "lucas@mergington.edu"},
		},
		{
			Name:            "Art Studio",
			Description:     "Explore painting, drawing, and sculpture techniques",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 14,
			Participants:    []string{"lily@mergington.edu", "zoe@mergington.edu"},
		},
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
	}
}
