package models

func roleTag(r Role) *Role { return &r }

// DefaultSelfCareActivities is the seed catalog written to the local store
// the first time the activity collection is read and found empty. Shared
// entries have no role tag; Academic is student-only, Boundaries RN-only.
var DefaultSelfCareActivities = []SelfCareActivity{
	{ID: "body-1", Title: "5-Minute Stretch", Description: "Gentle stretching to release tension in your neck, shoulders, and back. Focus on areas that feel tight.", DurationMinutes: 5, Category: "Body"},
	{ID: "body-2", Title: "Quick Walk", Description: "Take a short walk outside or around your space. Notice your surroundings and breathe deeply.", DurationMinutes: 10, Category: "Body"},
	{ID: "body-3", Title: "Hydration Break", Description: "Drink a full glass of water slowly. Notice how it feels. Add lemon or cucumber for variety.", DurationMinutes: 2, Category: "Body"},
	{ID: "body-4", Title: "Power Nap", Description: "A short 20-minute rest to recharge. Set an alarm and find a quiet, comfortable spot.", DurationMinutes: 20, Category: "Body"},
	{ID: "mind-1", Title: "Box Breathing", Description: "Breathe in for 4, hold for 4, out for 4, hold for 4. Repeat 4 times. Calms your nervous system.", DurationMinutes: 5, Category: "Mind"},
	{ID: "mind-2", Title: "Mindful Moment", Description: "Sit quietly and notice 5 things you can see, 4 you can touch, 3 you can hear, 2 you can smell, 1 you can taste.", DurationMinutes: 5, Category: "Mind"},
	{ID: "mind-3", Title: "Brain Dump", Description: "Write down everything on your mind for 5 minutes without stopping. No judgment, just release.", DurationMinutes: 5, Category: "Mind"},
	{ID: "mind-4", Title: "Guided Meditation", Description: "Use a meditation app or YouTube for a short guided session. Focus on relaxation or stress relief.", DurationMinutes: 10, Category: "Mind"},
	{ID: "heart-1", Title: "Gratitude List", Description: "Write down 3 things you're grateful for today, no matter how small.", DurationMinutes: 5, Category: "Heart"},
	{ID: "heart-2", Title: "Connect with Someone", Description: "Send a text, make a call, or have a quick chat with someone who lifts your spirits.", DurationMinutes: 10, Category: "Heart"},
	{ID: "heart-3", Title: "Self-Compassion Break", Description: "Place your hand on your heart. Say: \"This is hard. I'm not alone. May I be kind to myself.\"", DurationMinutes: 2, Category: "Heart"},
	{ID: "heart-4", Title: "Joy Moment", Description: "Do something that brings you joy: listen to a favorite song, look at photos, watch a funny video.", DurationMinutes: 5, Category: "Heart"},
	{ID: "academic-1", Title: "Study Break Ritual", Description: "After 25 minutes of studying, take 5 minutes to stand, stretch, and rest your eyes.", DurationMinutes: 5, Category: "Academic", RoleTag: roleTag(RoleStudent)},
	{ID: "academic-2", Title: "Concept Review", Description: "Teach a concept out loud to yourself or a study buddy. Teaching reinforces learning.", DurationMinutes: 10, Category: "Academic", RoleTag: roleTag(RoleStudent)},
	{ID: "academic-3", Title: "Exam Prep Visualization", Description: "Close your eyes and visualize yourself calm and confident during your exam.", DurationMinutes: 5, Category: "Academic", RoleTag: roleTag(RoleStudent)},
	{ID: "boundaries-1", Title: "End-of-Shift Ritual", Description: "Before leaving work, take 2 minutes to acknowledge what you did well and what you're leaving behind.", DurationMinutes: 2, Category: "Boundaries", RoleTag: roleTag(RoleRN)},
	{ID: "boundaries-2", Title: "Say No Practice", Description: "Identify one thing you can say no to this week. Practice the words: \"I can't take that on right now.\"", DurationMinutes: 5, Category: "Boundaries", RoleTag: roleTag(RoleRN)},
	{ID: "boundaries-3", Title: "Transition Time", Description: "Give yourself 10 minutes between work and home. Sit in your car, take a walk, or just breathe.", DurationMinutes: 10, Category: "Boundaries", RoleTag: roleTag(RoleRN)},
	{ID: "boundaries-4", Title: "Emotional Release", Description: "Acknowledge difficult emotions from your shift. Write them down or talk them out, then let them go.", DurationMinutes: 10, Category: "Boundaries", RoleTag: roleTag(RoleRN)},
}

// ActivitiesForRole filters the catalog to entries visible to the role.
func ActivitiesForRole(activities []SelfCareActivity, role Role) []SelfCareActivity {
	out := make([]SelfCareActivity, 0, len(activities))
	for _, a := range activities {
		if a.RoleTag == nil || *a.RoleTag == role {
			out = append(out, a)
		}
	}
	return out
}
