package editor

import (
	"fmt"
	"io"
	"time"

	"carillon/internal/schedule"
	"carillon/internal/storage"
)

const instructions = `- Enter Line# Day(s) Hour(s) Minute and File Name or Strike.
- Separate line# and event parameters with a single space.
- Day is mm/dd/yy, su, mo, tu, we, th, fr, or sa.
- Hour is 24-hour time between 0 and 23.
- Minute is between 0 to 59. Events play at hh:mm:00.
- Ranges are allowed and inclusive: 0-23 = hourly, su-sa = daily.
- Tunes are filenames and are cAsE SeNsiTiVe.
- Line#<enter> to delete a line.
- h<enter> to show recent playouts.
- ?<enter> to repeat these instructions.`

func writeInstructions(w io.Writer) {
	fmt.Fprintln(w, instructions)
}

// writeSchedule prints positions 1..N with each rule in entry format, so the
// display doubles as a template for edits.
func writeSchedule(w io.Writer, rules []schedule.Rule) {
	fmt.Fprintln(w, "Day(s) Hr(s) Min Tune")
	for i, r := range rules {
		fmt.Fprintf(w, "%d: %s\n", i+1, r)
	}
}

func writeHistory(w io.Writer, recs []storage.PlayRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No playouts recorded yet")
		return
	}
	for _, rec := range recs {
		status := "ok"
		if !rec.OK {
			status = "FAILED: " + rec.Error
		}
		fmt.Fprintf(w, "%s  %s  %s\n", rec.At.Format(time.DateTime), rec.Sound, status)
	}
}
