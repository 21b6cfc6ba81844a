package main

// Display is the character display as the menu renderer consumes it.
// Cursor coordinates are character cells at scale 1; SetScale only changes
// the glyph size of subsequent prints. Nothing reaches the panel until
// Flush.
type Display interface {
	Clear()
	SetCursor(col, row int)
	SetScale(n int)
	Print(text string)
	Flush() error
	Close() error
}

// visibleItems is how many list entries fit under the header row.
const visibleItems = 3

// menuWindow returns the first visible item index so the selection stays
// inside the window. Lists short enough to fit entirely never scroll.
func menuWindow(selected, count, rows int) int {
	if count <= rows {
		return 0
	}
	start := selected - 1
	if start < 0 {
		start = 0
	}
	if start > count-rows {
		start = count - rows
	}
	return start
}

// drawScreen renders one menu page and flushes it. The welcome page prints
// two double-scale lines; list pages print a header row plus a scrolling
// window of items with the selection marked.
func drawScreen(d Display, s Screen) error {
	d.Clear()
	if s.Big {
		d.SetScale(2)
		d.SetCursor(0, 0)
		d.Print(s.Header)
		if len(s.Items) > 0 {
			d.SetCursor(0, 2)
			d.Print(s.Items[0])
		}
		d.SetScale(1)
		return d.Flush()
	}
	d.SetScale(1)
	d.SetCursor(0, 0)
	d.Print(s.Header)
	start := menuWindow(s.Selected, len(s.Items), visibleItems)
	for row := 0; row < visibleItems && start+row < len(s.Items); row++ {
		i := start + row
		marker := "  "
		if i == s.Selected {
			marker = "> "
		}
		d.SetCursor(0, 1+row)
		d.Print(marker + s.Items[i])
	}
	return d.Flush()
}

// nullDisplay drops everything, for headless bench runs.
type nullDisplay struct{}

func (nullDisplay) Clear()                {}
func (nullDisplay) SetCursor(_, _ int)    {}
func (nullDisplay) SetScale(_ int)        {}
func (nullDisplay) Print(_ string)        {}
func (nullDisplay) Flush() error          { return nil }
func (nullDisplay) Close() error          { return nil }
