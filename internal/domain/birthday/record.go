package birthday

import "time"

// Record is a single user's birthday scoped to one guild (group chat). The
// JSON tags are the durable wire format of the birthday file.
type Record struct {
	UserID    int64  `json:"user_id"`
	GuildID   int64  `json:"guild_id"`
	Name      string `json:"name"`
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	Year      *int   `json:"year"`
	UTCOffset int    `json:"utc_offset"`
	// LastAnnouncement is the UTC day this record last triggered an
	// announcement; only its year participates in the once-per-year guard.
	LastAnnouncement *time.Time `json:"last_announcement"`
}

// AnnouncedIn reports whether the record already triggered an announcement in
// the given calendar year.
func (r *Record) AnnouncedIn(year int) bool {
	return r.LastAnnouncement != nil && r.LastAnnouncement.Year() == year
}

// Snapshot is the full durable document: every birthday record plus the
// per-guild announcement channel mapping. Integer map keys marshal as JSON
// object keys, giving the {"<guild_id>": <channel_id>} layout on disk.
type Snapshot struct {
	Entries        []Record        `json:"entries"`
	ServerChannels map[int64]int64 `json:"server_channels"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Entries:        []Record{},
		ServerChannels: make(map[int64]int64),
	}
}

// Find returns a copy of the record for the (user, guild) pair.
func (s *Snapshot) Find(userID, guildID int64) (Record, bool) {
	for _, e := range s.Entries {
		if e.UserID == userID && e.GuildID == guildID {
			return e, true
		}
	}
	return Record{}, false
}

// Put inserts rec, replacing any existing record for the same (user, guild)
// pair. Records for the same user in other guilds are untouched.
func (s *Snapshot) Put(rec Record) {
	kept := make([]Record, 0, len(s.Entries)+1)
	for _, e := range s.Entries {
		if e.UserID == rec.UserID && e.GuildID == rec.GuildID {
			continue
		}
		kept = append(kept, e)
	}
	s.Entries = append(kept, rec)
}
