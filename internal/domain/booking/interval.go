package booking

import "time"

// Interval is a stay from the check-in instant to the check-out instant.
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Valid reports whether the interval has positive length.
func (i Interval) Valid() bool {
	return i.CheckOut.After(i.CheckIn)
}

// Overlaps is the half-open intersection test on [CheckIn, CheckOut).
// A check-out at the same instant as another check-in does not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(i.CheckOut)
}

// Touches is the closed-boundary test used by booking storage: the query
// interval i conflicts with the existing interval o when i starts inside o,
// i ends inside o, or o lies entirely inside i. Shared boundary instants
// count as conflicts.
func (i Interval) Touches(o Interval) bool {
	return within(i.CheckIn, o) ||
		within(i.CheckOut, o) ||
		(within(o.CheckIn, i) && within(o.CheckOut, i))
}

// within reports t ∈ [span.CheckIn, span.CheckOut].
func within(t time.Time, span Interval) bool {
	return !t.Before(span.CheckIn) && !t.After(span.CheckOut)
}

// OverlapQuery selects the bookings of a room that touch [From, To].
type OverlapQuery struct {
	RoomID int64
	From   time.Time
	To     time.Time
}

// Interval returns the queried window.
func (q OverlapQuery) Interval() Interval {
	return Interval{CheckIn: q.From, CheckOut: q.To}
}

// Matches applies the storage overlap policy to a single booking.
func (q OverlapQuery) Matches(b *Booking) bool {
	return b.RoomID == q.RoomID && q.Interval().Touches(b.Interval())
}
