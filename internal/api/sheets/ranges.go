package sheets

// Tab names and ranges are the wire contract with the league sheet; they
// must match the spreadsheet byte-for-byte.
const (
	RangeLeagueMeta   = "League_Meta!A2:B10"
	RangeTeams        = "Teams!A2:G100"
	RangeRequirements = "Roster_Requirements!A2:D10"
	RangeRosters      = "Rosters!A2:I500"
	RangeAvailable    = "Available_Players!A2:G500"
	RangePlayerPool   = "PlayerPool_FanDuel!A1:Z500"
	RangeDraftState   = "Draft_State!A2:B10"
	RangeDraftOrder   = "Draft_Order!A2:G100"

	// Narrow reads used when locating rows to mutate.
	RangeAvailableIDs    = "Available_Players!A2:A500"
	RangeRostersForDrop  = "Rosters!A2:H500"
	RangeAvailableByName = "Available_Players!A2:F500"

	// Write targets.
	RangeRosterAppend    = "Rosters!A:I"
	RangeDraftStateWrite = "Draft_State!B2:B6"

	TabRosters = "Rosters"
)
