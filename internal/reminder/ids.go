package reminder

import "github.com/cespare/xxhash/v2"

const (
	// idSlots is the number of offsets available to one bill.
	idSlots = 1000
	// idBuckets keeps base*idSlots+offset inside int32.
	idBuckets = 2_000_000
)

// Offsets used inside a bill's slot range.
const (
	offsetBefore = 1   // before-due reminders: 1, 3, 5, ...
	offsetDue    = 2   // due-day reminders: 2, 4, 6, ...
	offsetWindow = 100 // daily window reminders start here
	windowStride = 62  // two per day for up to 31 days per occurrence
)

// MaxOccurrences is the most cycles a Planner can plan ahead without its
// daily window IDs running past the bill's slot range.
const MaxOccurrences = (idSlots - offsetWindow) / windowStride

// NotificationID derives a small non-negative notification ID from a key
// (usually a bill ID) and an offset below 1000. All notifications of one
// bill share a contiguous block of IDs, so replanning a bill overwrites its
// previous set.
func NotificationID(key string, offset int) int32 {
	base := xxhash.Sum64String(key) % idBuckets
	return int32(base*idSlots + uint64(offset%idSlots))
}

func summaryID(ownerID string) int32 {
	return NotificationID("summary:"+ownerID, 0)
}
