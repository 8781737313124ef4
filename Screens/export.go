package Screens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Prapatti/Reports"
)

var (
	ErrNoReport    = errors.New("screen has no report")
	ErrDownloading = errors.New("a report is already downloading")
)

// Downloader posts a report request and returns the file bytes.
type Downloader interface {
	Download(ctx context.Context, path string, body any) ([]byte, string, error)
}

type ReportSpec struct {
	// Endpoints maps each offered format to its path on the REST service.
	Endpoints map[Reports.Format]string
	Body      func(Criteria) any
	Filename  func(Criteria, Reports.Format) string
	// Failure is the message shown when the download fails.
	Failure func(Reports.Format) string
}

func (r *ReportSpec) Offers(format Reports.Format) bool {
	if r == nil {
		return false
	}
	_, ok := r.Endpoints[format]
	return ok
}

// Offers reports whether the screen can download format from the server.
func (c *Controller[T, F]) Offers(format Reports.Format) bool {
	return c.cfg.Downloader != nil && c.cfg.Report.Offers(format)
}

// DefaultRange is the first of now's month through now, as YYYY-MM-DD.
func DefaultRange(now time.Time) (string, string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.Format("2006-01-02"), now.Format("2006-01-02")
}

// ExportReport downloads the server report for the current filters. With no
// date range chosen it falls back to DefaultRange and keeps that range in
// the visible filters.
func (c *Controller[T, F]) ExportReport(ctx context.Context, format Reports.Format, now time.Time) (Reports.File, error) {
	return c.export(ctx, format, now, nil)
}

// ExportCompanyReport is ExportReport limited to one company without
// touching the screen's own company filter.
func (c *Controller[T, F]) ExportCompanyReport(ctx context.Context, format Reports.Format, now time.Time, company string) (Reports.File, error) {
	return c.export(ctx, format, now, func(criteria *Criteria) {
		criteria.Company = company
	})
}

func (c *Controller[T, F]) export(ctx context.Context, format Reports.Format, now time.Time, adjust func(*Criteria)) (Reports.File, error) {
	spec := c.cfg.Report
	if spec == nil || c.cfg.Downloader == nil {
		return Reports.File{}, ErrNoReport
	}

	c.mu.Lock()
	if c.downloading {
		c.mu.Unlock()
		return Reports.File{}, ErrDownloading
	}
	endpoint, ok := spec.Endpoints[format]
	if !ok {
		c.err = spec.Failure(format)
		c.mu.Unlock()
		return Reports.File{}, fmt.Errorf("%s report: format %q not offered", c.cfg.Name, format)
	}
	if !c.criteria.HasRange() {
		c.criteria.StartDate, c.criteria.EndDate = DefaultRange(now)
		c.page = 1
	}
	criteria := c.criteria
	c.err = ""
	c.downloading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.downloading = false
		c.mu.Unlock()
	}()

	if adjust != nil {
		adjust(&criteria)
		criteria = criteria.normalized()
	}

	data, contentType, err := c.cfg.Downloader.Download(ctx, endpoint, spec.Body(criteria))
	if err != nil {
		c.mu.Lock()
		c.err = spec.Failure(format)
		c.mu.Unlock()
		return Reports.File{}, err
	}
	if contentType == "" {
		contentType = format.ContentType()
	}
	return Reports.File{
		Name:        spec.Filename(criteria, format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// Downloading reports whether an export is in flight.
func (c *Controller[T, F]) Downloading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.downloading
}
