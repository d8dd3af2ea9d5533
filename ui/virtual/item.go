package virtual

// StaticData is what the content renderer reports about an item.
type StaticData struct {
	ID       string
	Size     int    // explicit size; zero when unknown
	Category string // shared size category; wins over Size
}

// Position is the directive the host applies to place an item.
type Position struct {
	Absolute   bool
	TranslateY int
}

// Placement is the resolver's verdict for one item in one pass.
type Placement struct {
	ID       string
	Y        int
	Position Position

	// DataOnly items keep their slot in the order but mount no content.
	DataOnly bool

	// Refresh is false when the host may reuse what it produced for this
	// item last pass.
	Refresh bool

	// InvalidateSize tells the engine the item's content changed size.
	InvalidateSize func()
}

// Resolve places one item. It must be called once per item per pass, in
// visitation order, between BeginPass and EndPass.
func (c *Controller) Resolve(d StaticData) Placement {
	pass := c.cur
	id := d.ID

	var (
		size         int
		fromCategory = d.Category != ""
		dynamic      = d.Size <= 0 || fromCategory
	)

	switch {
	case fromCategory:
		if d.Size > 0 {
			c.warnAmbiguous(d)
		}
		c.sizes.SetCategory(id, d.Category)
		v, st := c.sizes.Category(d.Category)
		if st == CategoryAbsent {
			c.sizes.Claim(d.Category, id)
			c.log.Debug("category claimed", "category", d.Category, "id", id)
		} else {
			delete(c.invalidated, id)
			size = v
		}
	case d.Size > 0:
		c.sizes.SetSize(id, d.Size)
		size = d.Size
	default:
		size, _ = c.sizes.Size(id)
	}

	index := pass.push(id)
	_, wasInvalidated := c.invalidated[id]
	delete(c.invalidated, id)

	y := pass.y
	dataOnly := pass.structural
	if !dataOnly && size > 0 && (y+size <= c.scrollTop || y > c.scrollTop+c.viewHeight) {
		dataOnly = true
	}

	queue := false
	if size <= 0 {
		y = StagingOffset
		if pass.quota < MaxMeasurePerBatch {
			pass.quota++
			dataOnly = false
			queue = true
		} else {
			dataOnly = true
			// Category members heal once any probe resolves.
			if !fromCategory {
				c.invalidated[id] = struct{}{}
			}
		}
	} else if !dataOnly && dynamic && !fromCategory && c.sizes.Stale(id) && pass.quota < MaxMeasurePerBatch {
		pass.quota++
		queue = true
	}
	if queue {
		pass.queue(id)
	}

	if size > 0 {
		pass.y += size
	}

	if !pass.structural && c.prev.valid && c.prev.indexOf(id) != index {
		c.RequestUpdate(false)
	}

	if dataOnly {
		pass.dataOnly++
	} else {
		pass.mounted++
	}

	last, seen := c.placed[id]
	refresh := !seen || last.y != y || last.dataOnly != dataOnly || wasInvalidated ||
		!dataOnly || c.opts.deopt.OverzealousInvalidation
	c.placed[id] = placed{y: y, dataOnly: dataOnly}

	return Placement{
		ID:             id,
		Y:              y,
		Position:       Position{Absolute: true, TranslateY: y},
		DataOnly:       dataOnly,
		Refresh:        refresh,
		InvalidateSize: c.invalidateSizeFunc(id, dynamic && !fromCategory),
	}
}

// invalidateSizeFunc marks a dynamic item for re-measurement. Mounted items
// always qualify; data-only items only with ItemsOutsideViewportCanChangeSize.
func (c *Controller) invalidateSizeFunc(id string, dynamic bool) func() {
	return func() {
		if dynamic {
			last, seen := c.placed[id]
			onScreen := seen && !last.dataOnly
			if onScreen || c.opts.deopt.ItemsOutsideViewportCanChangeSize {
				c.invalidated[id] = struct{}{}
				c.sizes.MarkStale(id)
			}
		}
		c.RequestUpdate(true)
	}
}

func (c *Controller) warnAmbiguous(d StaticData) {
	if _, ok := c.warned[d.ID]; ok {
		return
	}
	c.warned[d.ID] = struct{}{}
	c.log.Warn("size and size category both provided; category wins and the size is measured",
		"id", d.ID, "size", d.Size, "category", d.Category)
}
