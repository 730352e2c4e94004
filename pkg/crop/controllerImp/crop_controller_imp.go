package controllerImp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"kaset/entities"
	"kaset/pkg/crop/repository"
	"kaset/pkg/lifecycle"
)

type CropCtrl struct {
	repo repository.CropRepository
	eng  *lifecycle.Engine
	now  func() time.Time
}

func New(repo repository.CropRepository, eng *lifecycle.Engine) *CropCtrl {
	return &CropCtrl{repo: repo, eng: eng, now: time.Now}
}

type createReq struct {
	CropType         string  `json:"crop_type"`
	Variety          string  `json:"variety"`
	Area             float64 `json:"area"`
	IrrigationSrc    string  `json:"irrigation_src"`
	SowingDate       string  `json:"sowing_date"`             // YYYY-MM-DD
	DurationDays     int     `json:"duration_days,omitempty"` // 0 = timeline default
	RegistrationMode string  `json:"registration_mode"`       // new|existing (default new)
	InitialStage     string  `json:"initial_stage,omitempty"` // only honored for existing crops
}

type patchReq struct {
	SowingDate   *string  `json:"sowing_date,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty"`
	Variety      *string  `json:"variety,omitempty"`
	Area         *float64 `json:"area,omitempty"`
}

type cropResp struct {
	Crop    *entities.Crop          `json:"crop"`
	Derived *lifecycle.DerivedState `json:"derived,omitempty"`
}

// Create registers a crop. The classifier runs here, once: a sowing date
// older than the late-registration window forces mode "existing" and
// pre-populates an estimated stage (the farmer's own stated stage wins).
func (h *CropCtrl) Create(c echo.Context) error {
	uid := c.Get("uid").(string)
	var req createReq
	if err := c.Bind(&req); err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"}) }

	sowing, err := time.Parse("2006-01-02", req.SowingDate)
	if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": "sowing_date must be YYYY-MM-DD"}) }

	mode := lifecycle.RegistrationMode(req.RegistrationMode)
	if mode == "" { mode = lifecycle.RegistrationNew }
	asOf := h.now()

	cls, err := h.eng.Classify(req.CropType, sowing, mode, asOf)
	if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()}) }

	dur := req.DurationDays
	if dur == 0 { dur = h.eng.Timelines().DefaultDuration(req.CropType) }
	if dur < 1 { return c.JSON(http.StatusBadRequest, map[string]string{"error": "duration_days must be >= 1"}) }

	override := ""
	if mode == lifecycle.RegistrationExisting && req.InitialStage != "" {
		if !lifecycle.Stage(req.InitialStage).Valid() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown initial_stage"})
		}
		override = req.InitialStage
	} else if cls.IsLate {
		override = string(cls.InferredStage)
	}

	crop := &entities.Crop{
		UserID: uid, CropType: req.CropType, Variety: req.Variety, Area: req.Area,
		IrrigationSrc: req.IrrigationSrc, SowingDate: sowing, DurationDays: dur,
		RegistrationMode: string(mode), InitialStageOverride: override,
	}
	if err := h.repo.Create(crop); err != nil { return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()}) }

	d, err := h.eng.Derive(snapshotOf(crop), asOf)
	if err != nil { return c.JSON(http.StatusCreated, cropResp{Crop: crop}) }
	return c.JSON(http.StatusCreated, cropResp{Crop: crop, Derived: &d})
}

func (h *CropCtrl) Get(c echo.Context) error {
	crop, code, err := h.load(c)
	if err != nil { return c.JSON(code, map[string]string{"error": err.Error()}) }
	asOf, err := h.asOf(c)
	if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()}) }
	d, err := h.eng.Derive(snapshotOf(crop), asOf)
	if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()}) }
	return c.JSON(http.StatusOK, cropResp{Crop: crop, Derived: &d})
}

func (h *CropCtrl) List(c echo.Context) error {
	uid := c.Get("uid").(string)
	crops, err := h.repo.ListByUser(uid)
	if err != nil { return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()}) }
	asOf, err := h.asOf(c)
	if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()}) }

	out := make([]cropResp, 0, len(crops))
	for i := range crops {
		item := cropResp{Crop: &crops[i]}
		// A crop with bad stored dates still lists; its derived block is just absent.
		if d, err := h.eng.Derive(snapshotOf(&crops[i]), asOf); err == nil { item.Derived = &d }
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, out)
}

// Patch corrects stored facts. expected_harvest_date has no write path on
// purpose; it only ever moves because sowing_date or duration_days did.
func (h *CropCtrl) Patch(c echo.Context) error {
	crop, code, err := h.load(c)
	if err != nil { return c.JSON(code, map[string]string{"error": err.Error()}) }
	var req patchReq
	if err := c.Bind(&req); err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"}) }

	if req.SowingDate != nil {
		sowing, err := time.Parse("2006-01-02", *req.SowingDate)
		if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": "sowing_date must be YYYY-MM-DD"}) }
		crop.SowingDate = sowing
	}
	if req.DurationDays != nil {
		if *req.DurationDays < 1 { return c.JSON(http.StatusBadRequest, map[string]string{"error": "duration_days must be >= 1"}) }
		crop.DurationDays = *req.DurationDays
	}
	if req.Variety != nil { crop.Variety = *req.Variety }
	if req.Area != nil { crop.Area = *req.Area }

	// Reject the correction if it leaves the record underivable.
	asOf := h.now()
	d, err := h.eng.Derive(snapshotOf(crop), asOf)
	if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()}) }
	if err := h.repo.Save(crop); err != nil { return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()}) }
	return c.JSON(http.StatusOK, cropResp{Crop: crop, Derived: &d})
}

func (h *CropCtrl) Delete(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, _ := strconv.Atoi(c.Param("id"))
	if err := h.repo.Delete(uint(id), uid); err != nil { return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()}) }
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Next serves the schedule view: per-event state plus the single next action.
func (h *CropCtrl) Next(c echo.Context) error {
	crop, code, err := h.load(c)
	if err != nil { return c.JSON(code, map[string]string{"error": err.Error()}) }
	asOf, err := h.asOf(c)
	if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()}) }
	d, err := h.eng.Derive(snapshotOf(crop), asOf)
	if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()}) }
	return c.JSON(http.StatusOK, map[string]any{
		"next_event":               d.NextEvent,
		"next_event_due_date":      d.NextEventDueDate,
		"next_event_days_until":    d.NextEventDaysUntil,
		"event_restriction_active": d.EventRestrictionActive,
		"event_restriction_until":  d.EventRestrictionUntil,
		"events":                   d.Events,
	})
}

// Facts serves the flat key/value payload the chat layer injects into its
// farming-advice prompt.
func (h *CropCtrl) Facts(c echo.Context) error {
	crop, code, err := h.load(c)
	if err != nil { return c.JSON(code, map[string]string{"error": err.Error()}) }
	asOf, err := h.asOf(c)
	if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()}) }
	d, err := h.eng.Derive(snapshotOf(crop), asOf)
	if err != nil { return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()}) }
	return c.JSON(http.StatusOK, d.Facts())
}

func (h *CropCtrl) load(c echo.Context) (*entities.Crop, int, error) {
	uid := c.Get("uid").(string)
	id, _ := strconv.Atoi(c.Param("id"))
	crop, err := h.repo.FindByID(uint(id), uid)
	if err != nil { return nil, http.StatusNotFound, errors.New("not found") }
	return crop, http.StatusOK, nil
}

func (h *CropCtrl) asOf(c echo.Context) (time.Time, error) {
	q := c.QueryParam("as_of")
	if q == "" { return h.now(), nil }
	t, err := time.Parse("2006-01-02", q)
	if err != nil { return time.Time{}, errors.New("as_of must be YYYY-MM-DD") }
	return t, nil
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
