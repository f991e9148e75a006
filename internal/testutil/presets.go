package testutil

import "time"

// WithStandardDrafts adds a small dataset with distinct update times,
// newest last by ID and by timestamp.
func (b *Builder) WithStandardDrafts() *Builder {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	return b.
		WithDraft(1, "weekly update",
			Segments(Text("hi "), Token("@Alice", "alice"), Text(", notes attached")),
			CreatedAt(lastWeek), UpdatedAt(lastWeek)).
		WithDraft(2, "standup",
			Segments(Token("@Bob", "bob"), Text(" is out today")),
			CreatedAt(yesterday), UpdatedAt(yesterday)).
		WithDraft(3, "reminder",
			Segments(Text("ship it")),
			CreatedAt(now), UpdatedAt(now))
}
