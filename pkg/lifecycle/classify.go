package lifecycle

import (
	"sort"
	"time"

	"oxibook/pkg/model"
)

// View selects one of the user-facing booking lists.
type View string

const (
	ViewUpcoming  View = "upcoming"
	ViewCancelled View = "cancelled"
	ViewHistory   View = "history"
)

// ParseView maps a query-string value to a View.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewUpcoming, ViewCancelled, ViewHistory:
		return View(s), true
	default:
		return "", false
	}
}

// Result is a classified, ordered view over a record snapshot.
// Displayable counts the records whose appointment instant parsed, so
// a UI can show "N records, M displayable" when they diverge.
type Result struct {
	Records     []*model.BookingRecord
	Total       int
	Displayable int
}

type annotated struct {
	record  *model.BookingRecord
	status  Status
	instant time.Time
	parsed  bool
}

// Classify filters and orders a record snapshot for the requested view
// at the given instant. Membership is a pure function of
// (status, appointment instant, now):
//
//   - ViewUpcoming: status Upcoming and instant strictly in the future.
//     Records whose instant fails to parse are excluded, not fatal.
//   - ViewCancelled: status Cancelled, time ignored.
//   - ViewHistory: anything no longer actionable - Completed,
//     Cancelled, or Upcoming whose instant has passed. A non-empty
//     ownerID additionally restricts History to that user's records
//     (the end-user view; admin and vendor views pass "").
//
// Output is ordered ascending by instant; records without a parseable
// instant sort after all parseable ones, keeping their original
// relative order. Classify never mutates its input and never fails.
func Classify(records []*model.BookingRecord, now time.Time, view View, ownerID string, loc *time.Location) Result {
	result := Result{Total: len(records)}

	kept := make([]annotated, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}

		a := annotated{record: record, status: Normalize(record.Status)}
		if instant, err := ParseInstant(record.AppointmentDate, record.AppointmentTime, loc); err == nil {
			a.instant = instant
			a.parsed = true
			result.Displayable++
		}

		if includeIn(a, now, view, ownerID) {
			kept = append(kept, a)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].parsed != kept[j].parsed {
			return kept[i].parsed
		}
		if !kept[i].parsed {
			return false
		}
		return kept[i].instant.Before(kept[j].instant)
	})

	result.Records = make([]*model.BookingRecord, len(kept))
	for i, a := range kept {
		result.Records[i] = a.record
	}
	return result
}

func includeIn(a annotated, now time.Time, view View, ownerID string) bool {
	switch view {
	case ViewUpcoming:
		return a.status == StatusUpcoming && a.parsed && a.instant.After(now)
	case ViewCancelled:
		return a.status == StatusCancelled
	case ViewHistory:
		if ownerID != "" && a.record.UserID != ownerID {
			return false
		}
		if a.status == StatusCompleted || a.status == StatusCancelled {
			return true
		}
		return a.parsed && !a.instant.After(now)
	default:
		return false
	}
}
