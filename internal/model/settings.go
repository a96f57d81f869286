package model

// Settings holds the user-tunable behavior of the disposition pipeline.
// Stored as JSON in the state store so an external UI can share it.
type Settings struct {
	ShowFlags     bool `json:"show_flags"`
	MuteFollowing bool `json:"mute_following"`
}

func DefaultSettings() Settings {
	return Settings{
		ShowFlags:     false,
		MuteFollowing: false,
	}
}
