package packets

// query of GET /api/history; a missing days means the default window
type HistoryQuery struct {
	Days *int `form:"days"`
}

// path of POST /api/dashboard/prayers/:prayer
type MarkPrayerURI struct {
	Prayer string `uri:"prayer" binding:"required"`
}

// path of POST /api/history/:date/:prayer/toggle
type TogglePrayerURI struct {
	Date   string `uri:"date" binding:"required"`
	Prayer string `uri:"prayer" binding:"required"`
}
