package Controllers

import (
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"Prapatti/Models"
	"Prapatti/Screens"
)

// ActivityGroup summarises journal entries for one resource.
type ActivityGroup struct {
	Resource    string  `json:"resource"`
	Count       int     `json:"count"`
	Failures    int     `json:"failures"`
	SuccessRate float64 `json:"success_rate"`
}

// ActivityResponse is what the activity page and its JSON variant render.
type ActivityResponse struct {
	Entries    []Models.AuditEntry `json:"entries"`
	Groups     []ActivityGroup     `json:"groups"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
	Resource   string              `json:"resource"`
	DateFrom   string              `json:"date_from"`
	DateTo     string              `json:"date_to"`
}

func (r ActivityResponse) HasPrev() bool { return r.Page > 1 }
func (r ActivityResponse) HasNext() bool { return r.Page < r.TotalPages }
func (r ActivityResponse) PrevPage() int { return r.Page - 1 }
func (r ActivityResponse) NextPage() int { return r.Page + 1 }

// Activity lists journal entries with optional resource and date filters.
// ?format=json returns the same data as JSON.
func (con *Console) Activity(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	filter := Models.AuditFilter{Resource: c.Query("resource")}
	dateFrom, dateTo := c.Query("date_from"), c.Query("date_to")

	if dateFrom != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateFrom, time.Local)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date_from format. Use YYYY-MM-DD")
		}
		filter.From = parsed
	}
	if dateTo != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateTo, time.Local)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date_to format. Use YYYY-MM-DD")
		}
		// end of day
		filter.To = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	entries, err := con.Journal.List(filter)
	if err != nil {
		log.Printf("Error reading journal: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to read activity")
	}

	response := ActivityResponse{
		Entries:    Screens.PageOf(entries, page),
		Groups:     groupByResource(entries),
		Total:      len(entries),
		Page:       page,
		PageSize:   Screens.PageSize,
		TotalPages: Screens.PageCount(len(entries)),
		Resource:   filter.Resource,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	}
	if c.Query("format") == "json" {
		return c.JSON(response)
	}

	data := con.page(c, "Activity", "/activity")
	data["Activity"] = response
	data["Resources"] = []string{"auth", Screens.CompanyKey, Screens.OrderKey, Screens.ReturnOrderKey, Screens.TapeRollKey, Screens.KraftMailerKey}
	return c.Render("activity", data, layout)
}

func groupByResource(entries []Models.AuditEntry) []ActivityGroup {
	index := make(map[string]int)
	var groups []ActivityGroup
	for _, entry := range entries {
		i, ok := index[entry.Resource]
		if !ok {
			i = len(groups)
			index[entry.Resource] = i
			groups = append(groups, ActivityGroup{Resource: entry.Resource})
		}
		groups[i].Count++
		if entry.Outcome == Models.OutcomeFailure {
			groups[i].Failures++
		}
	}
	for i := range groups {
		groups[i].SuccessRate = float64(groups[i].Count-groups[i].Failures) / float64(groups[i].Count) * 100
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}
