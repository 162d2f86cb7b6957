package schedule

import "math"

// UpdateField applies a user edit to one field of one block and returns the
// reconciled sequence. The input slice is never mutated.
//
// Anchor rules:
//   - startTime moving left of the current end resizes the block (end
//     stays, hours recomputed); moving to or past the end shifts the whole
//     block, preserving its duration.
//   - endTime is the mirror image: moving right of the current start
//     resizes, moving to or before it shifts the block backward.
//   - hours always resizes forward: start stays anchored, hours are floored
//     at 0.5, end is recomputed.
//
// After the edit, any successors the block now overlaps are pushed forward
// with their durations preserved.
func UpdateField(blocks []Block, blockID string, field Field, value string) []Block {
	out := make([]Block, len(blocks))
	copy(out, blocks)

	idx := -1
	for i := range out {
		if out[i].ID == blockID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return out
	}

	switch field {
	case FieldStartTime:
		updateStart(&out[idx], value)
	case FieldEndTime:
		updateEnd(&out[idx], value)
	case FieldHours:
		updateHours(&out[idx], value)
	default:
		return out
	}

	resolveOverlaps(out, idx)
	return out
}

func updateStart(b *Block, value string) {
	newStart, ok := parseClock(value)
	if !ok {
		// Malformed input is stored as-is; form-level validation owns it.
		b.StartTime = value
		return
	}

	oldEnd, endOK := parseClock(b.EndTime)
	if endOK && newStart < oldEnd {
		// Resize: the right edge stays put.
		b.StartTime = formatClock(newStart)
		b.Hours = formatHours(oldEnd - newStart)
		return
	}

	// Shift: the new start would invert or collapse the block, so the
	// whole block moves with its duration intact.
	d := durationMinutes(*b)
	b.StartTime = formatClock(newStart)
	b.EndTime = formatClock(newStart + d)
	b.Hours = formatHours(d)
}

func updateEnd(b *Block, value string) {
	newEnd, ok := parseClock(value)
	if !ok {
		b.EndTime = value
		return
	}

	oldStart, startOK := parseClock(b.StartTime)
	if startOK && newEnd > oldStart {
		// Resize: the left edge stays put.
		b.EndTime = formatClock(newEnd)
		b.Hours = formatHours(newEnd - oldStart)
		return
	}

	// Shift: pull the block backward, duration intact.
	d := durationMinutes(*b)
	b.EndTime = formatClock(newEnd)
	b.StartTime = formatClock(newEnd - d)
	b.Hours = formatHours(d)
}

func updateHours(b *Block, value string) {
	hours, ok := parseHours(value)
	if !ok || hours < 0.5 {
		hours = 0.5
	}
	b.Hours = formatHoursValue(hours)

	if start, startOK := parseClock(b.StartTime); startOK {
		b.EndTime = formatClock(start + int(math.Round(hours*60)))
	}
}

func formatHoursValue(hours float64) string {
	return formatHours(int(math.Round(hours * 60)))
}

// resolveOverlaps walks the sequence from the edited block forward, pushing
// each successor that the previous block now overlaps. Pushed blocks keep
// their own duration. The walk covers every remaining pair: pushes only
// move blocks forward, so a single pass settles the whole chain.
func resolveOverlaps(blocks []Block, from int) {
	for i := from; i < len(blocks)-1; i++ {
		curEnd, curOK := parseClock(blocks[i].EndTime)
		nextStart, nextOK := parseClock(blocks[i+1].StartTime)
		if !curOK || !nextOK {
			continue
		}
		if curEnd <= nextStart {
			continue
		}

		d := durationMinutes(blocks[i+1])
		blocks[i+1].StartTime = formatClock(curEnd)
		blocks[i+1].EndTime = formatClock(curEnd + d)
		blocks[i+1].Hours = formatHours(d)
	}
}
