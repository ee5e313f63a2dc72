package lifecycle

import (
	"testing"
	"time"

	"oxibook/pkg/model"
)

var classifyNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func record(id, userID, status, date, timeOfDay string) *model.BookingRecord {
	return &model.BookingRecord{
		BookingID:       id,
		UserID:          userID,
		VendorID:        "V1",
		ServiceType:     model.ServiceClinic,
		AppointmentDate: date,
		AppointmentTime: timeOfDay,
		Status:          status,
	}
}

func ids(result Result) []string {
	out := make([]string, len(result.Records))
	for i, r := range result.Records {
		out[i] = r.BookingID
	}
	return out
}

func contains(result Result, id string) bool {
	for _, r := range result.Records {
		if r.BookingID == id {
			return true
		}
	}
	return false
}

func TestClassify_Views(t *testing.T) {
	records := []*model.BookingRecord{
		record("future", "U1", "", "2024-06-02", "09:00:00"),
		record("past", "U1", "upcoming", "2024-05-01", "10:00 AM"),
		record("cancelled-old", "U1", "Cancel", "2024-01-10", "10:00 AM"),
		record("done", "U1", "completed", "2024-05-20", "3:00 PM"),
		record("broken", "U1", "upcoming", "2024-06-10", "25:99"),
	}

	upcoming := Classify(records, classifyNow, ViewUpcoming, "", time.UTC)
	cancelled := Classify(records, classifyNow, ViewCancelled, "", time.UTC)
	history := Classify(records, classifyNow, ViewHistory, "", time.UTC)

	if got := ids(upcoming); len(got) != 1 || got[0] != "future" {
		t.Errorf("upcoming = %v, want [future]", got)
	}
	if got := ids(cancelled); len(got) != 1 || got[0] != "cancelled-old" {
		t.Errorf("cancelled = %v, want [cancelled-old]", got)
	}

	for _, want := range []string{"past", "cancelled-old", "done"} {
		if !contains(history, want) {
			t.Errorf("history should contain %s, got %v", want, ids(history))
		}
	}
	if contains(history, "future") {
		t.Errorf("history should not contain an unelapsed upcoming record")
	}
	if contains(history, "broken") || contains(upcoming, "broken") {
		t.Errorf("record with unparseable instant must stay out of time-ordered views")
	}

	if upcoming.Total != len(records) {
		t.Errorf("Total = %d, want %d", upcoming.Total, len(records))
	}
	if upcoming.Displayable != len(records)-1 {
		t.Errorf("Displayable = %d, want %d", upcoming.Displayable, len(records)-1)
	}
}

func TestClassify_CancelledAlwaysInHistory(t *testing.T) {
	// Cancelled membership ignores time entirely: past, future and
	// even unparseable instants all land in Cancelled and History.
	records := []*model.BookingRecord{
		record("c-past", "U1", "cancelled", "2024-01-10", "10:00 AM"),
		record("c-future", "U1", "Cancel", "2024-12-24", "10:00 AM"),
		record("c-broken", "U1", "cancel", "2024-12-24", "nope"),
	}

	cancelled := Classify(records, classifyNow, ViewCancelled, "", time.UTC)
	history := Classify(records, classifyNow, ViewHistory, "", time.UTC)

	for _, id := range []string{"c-past", "c-future", "c-broken"} {
		if !contains(cancelled, id) {
			t.Errorf("cancelled view missing %s", id)
		}
		if !contains(history, id) {
			t.Errorf("history view missing cancelled record %s", id)
		}
	}
}

func TestClassify_ElapsedUpcomingMovesToHistory(t *testing.T) {
	r := record("elapsed", "U1", "", "2024-05-30", "09:00:00")

	upcoming := Classify([]*model.BookingRecord{r}, classifyNow, ViewUpcoming, "", time.UTC)
	history := Classify([]*model.BookingRecord{r}, classifyNow, ViewHistory, "", time.UTC)

	if contains(upcoming, "elapsed") {
		t.Errorf("elapsed record must not appear in upcoming")
	}
	if !contains(history, "elapsed") {
		t.Errorf("elapsed record must appear in history")
	}
}

func TestClassify_FreshRecordStaysOutOfHistory(t *testing.T) {
	// Empty status normalizes to upcoming; a future instant keeps the
	// record out of history.
	r := record("fresh", "U1", "", "2024-06-02", "09:00:00")

	upcoming := Classify([]*model.BookingRecord{r}, classifyNow, ViewUpcoming, "", time.UTC)
	history := Classify([]*model.BookingRecord{r}, classifyNow, ViewHistory, "", time.UTC)

	if !contains(upcoming, "fresh") {
		t.Errorf("fresh record should be upcoming")
	}
	if contains(history, "fresh") {
		t.Errorf("fresh record should not be in history")
	}
}

func TestClassify_HistoryOwnerScope(t *testing.T) {
	records := []*model.BookingRecord{
		record("mine", "U1", "completed", "2024-05-01", "10:00:00"),
		record("theirs", "U2", "completed", "2024-05-01", "11:00:00"),
	}

	scoped := Classify(records, classifyNow, ViewHistory, "U1", time.UTC)
	if contains(scoped, "theirs") {
		t.Errorf("owner-scoped history leaked another user's record")
	}
	if !contains(scoped, "mine") {
		t.Errorf("owner-scoped history dropped the owner's record")
	}

	// Admin and vendor views skip the owner filter.
	all := Classify(records, classifyNow, ViewHistory, "", time.UTC)
	if len(all.Records) != 2 {
		t.Errorf("unscoped history = %v, want both records", ids(all))
	}
}

func TestClassify_Ordering(t *testing.T) {
	records := []*model.BookingRecord{
		record("c", "U1", "", "2024-06-03", "08:00:00"),
		record("broken-1", "U1", "cancel", "2024-06-02", "bad"),
		record("a", "U1", "cancel", "2024-06-02", "09:00:00"),
		record("broken-2", "U1", "cancelled", "2024-06-02", "also bad"),
		record("b", "U1", "Cancel", "2024-06-02", "2:00 PM"),
	}

	got := ids(Classify(records, classifyNow, ViewCancelled, "", time.UTC))
	want := []string{"a", "b", "broken-1", "broken-2"}

	if len(got) != len(want) {
		t.Fatalf("cancelled = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cancelled = %v, want %v (parseable ascending, unparseable last in input order)", got, want)
		}
	}
}

func TestClassify_UpcomingNonDecreasing(t *testing.T) {
	records := []*model.BookingRecord{
		record("z", "U1", "", "2024-06-05", "11:00 PM"),
		record("y", "U1", "", "2024-06-02", "09:00:00"),
		record("x", "U1", "", "2024-06-05", "07:30:00"),
	}

	result := Classify(records, classifyNow, ViewUpcoming, "", time.UTC)

	var prev time.Time
	for i, r := range result.Records {
		instant, err := ParseInstant(r.AppointmentDate, r.AppointmentTime, time.UTC)
		if err != nil {
			t.Fatalf("upcoming view contained unparseable record %s", r.BookingID)
		}
		if i > 0 && instant.Before(prev) {
			t.Fatalf("upcoming view not ordered: %v", ids(result))
		}
		prev = instant
	}
}

func TestClassify_PureWithRespectToInput(t *testing.T) {
	records := []*model.BookingRecord{
		record("b", "U1", "cancel", "2024-06-02", "10:00:00"),
		record("a", "U1", "cancel", "2024-06-01", "10:00:00"),
	}

	_ = Classify(records, classifyNow, ViewCancelled, "", time.UTC)

	if records[0].BookingID != "b" || records[1].BookingID != "a" {
		t.Errorf("Classify reordered its input slice")
	}
	if records[0].Status != "cancel" {
		t.Errorf("Classify mutated a record")
	}
}

func TestClassify_UnknownView(t *testing.T) {
	records := []*model.BookingRecord{
		record("a", "U1", "", "2024-06-02", "10:00:00"),
	}

	result := Classify(records, classifyNow, View("everything"), "", time.UTC)
	if len(result.Records) != 0 {
		t.Errorf("unknown view should select nothing, got %v", ids(result))
	}
}

func TestParseView(t *testing.T) {
	for _, valid := range []string{"upcoming", "cancelled", "history"} {
		if _, ok := ParseView(valid); !ok {
			t.Errorf("ParseView(%q) should succeed", valid)
		}
	}
	if _, ok := ParseView("Upcoming"); ok {
		t.Errorf("ParseView is case-sensitive by contract")
	}
	if _, ok := ParseView(""); ok {
		t.Errorf("ParseView(\"\") should fail")
	}
}
