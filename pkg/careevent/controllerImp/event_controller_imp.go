package controllerImp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"kaset/entities"
	eventrepo "kaset/pkg/careevent/repository"
	croprepo "kaset/pkg/crop/repository"
	"kaset/pkg/lifecycle"
)

// EventCtrl is the write side of the engine's collaborator contract: logging
// a care action appends to the event log and bumps the crop's last_*_at
// column. Derived state itself is never written anywhere.
type EventCtrl struct {
	crops  croprepo.CropRepository
	events eventrepo.EventRepository
	eng    *lifecycle.Engine
	now    func() time.Time
}

func New(crops croprepo.CropRepository, events eventrepo.EventRepository, eng *lifecycle.Engine) *EventCtrl {
	return &EventCtrl{crops: crops, events: events, eng: eng, now: time.Now}
}

type logReq struct {
	Type        string   `json:"type"` // irrigation|fertilization|pest_check
	PerformedAt string   `json:"performed_at,omitempty"` // YYYY-MM-DD, default today
	Qty         *float64 `json:"qty,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Note        string   `json:"note,omitempty"`
}

func (h *EventCtrl) Create(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, _ := strconv.Atoi(c.Param("id"))
	crop, err := h.crops.FindByID(uint(id), uid)
	if err != nil { return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"}) }

	var req logReq
	if err := c.Bind(&req); err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"}) }
	ev := lifecycle.EventType(req.Type)
	if !ev.IsCareEvent() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "type must be irrigation, fertilization or pest_check"})
	}

	at := h.now()
	if req.PerformedAt != "" {
		at, err = time.Parse("2006-01-02", req.PerformedAt)
		if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": "performed_at must be YYYY-MM-DD"}) }
	}
	if err := lifecycle.ValidateEventTime(crop.SowingDate, at); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	// A repeat inside the cooldown window is refused, not merely flagged.
	if d, derr := h.eng.Derive(snapshotOf(crop), at); derr == nil {
		for _, v := range d.Events {
			if v.Type == ev && v.Status == lifecycle.StatusRestricted {
				return c.JSON(http.StatusConflict, map[string]string{
					"error": string(ev) + " is restricted until " + v.RestrictedUntil.Format("2006-01-02"),
				})
			}
		}
	}

	switch ev {
	case lifecycle.EventIrrigation:
		crop.LastIrrigationAt = &at
	case lifecycle.EventFertilization:
		crop.LastFertilizationAt = &at
	case lifecycle.EventPestCheck:
		crop.LastPestCheckAt = &at
	}
	if err := h.crops.Save(crop); err != nil { return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()}) }

	rec := &entities.CareEvent{CropID: crop.CropID, Type: string(ev), PerformedAt: at, Qty: req.Qty, Unit: req.Unit, Note: req.Note}
	if err := h.events.Create(rec); err != nil { return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()}) }

	resp := map[string]any{"event": rec}
	if d, derr := h.eng.Derive(snapshotOf(crop), at); derr == nil { resp["derived"] = d }
	return c.JSON(http.StatusCreated, resp)
}

func (h *EventCtrl) List(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, _ := strconv.Atoi(c.Param("id"))
	if _, err := h.crops.FindByID(uint(id), uid); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	out, err := h.events.ListByCrop(uint(id))
	if err != nil { return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()}) }
	return c.JSON(http.StatusOK, out)
}

func snapshotOf(c *entities.Crop) lifecycle.Snapshot {
	return lifecycle.Snapshot{
		CropType:            c.CropType,
		SowingDate:          c.SowingDate,
		DurationDays:        c.DurationDays,
		LastIrrigationAt:    c.LastIrrigationAt,
		LastFertilizationAt: c.LastFertilizationAt,
		LastPestCheckAt:     c.LastPestCheckAt,
	}
}
