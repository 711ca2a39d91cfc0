package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/heritage-sites/internal/audit"
	"github.com/nerrad567/heritage-sites/internal/events"
	"github.com/nerrad567/heritage-sites/internal/heritage"
	"github.com/nerrad567/heritage-sites/internal/location"
)

type siteListPage struct {
	page
	Sites []heritage.Site
	Page  pagination
}

func (s *Server) handleSiteList(w http.ResponseWriter, r *http.Request) {
	number, ok := requestedPage(r)
	if !ok {
		s.notFound(w, r)
		return
	}

	size := s.catalog.SitesPerPage
	sites, total, err := s.sites.ListSites(r.Context(), size, pageOffset(number, size))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	p, ok := newPagination(number, size, total)
	if !ok {
		s.notFound(w, r)
		return
	}

	s.render(w, r, http.StatusOK, "site_list.html", siteListPage{
		page:  s.page(r, "Heritage Sites"),
		Sites: sites,
		Page:  p,
	})
}

type orderingOption struct {
	Value string
	Label string
}

var orderingOptions = []orderingOption{
	{"site_name", "Name (A to Z)"},
	{"-site_name", "Name (Z to A)"},
	{"date_inscribed", "Inscribed (oldest first)"},
	{"-date_inscribed", "Inscribed (newest first)"},
}

type siteFilterPage struct {
	page
	Filter              heritage.Filter
	Errors              heritage.FieldErrors
	Sites               []heritage.Site
	Categories          []heritage.Category
	Regions             []location.Region
	SubRegions          []location.SubRegion
	IntermediateRegions []location.IntermediateRegion
	Countries           []location.CountryArea
	Orderings           []orderingOption
}

func (s *Server) handleSiteFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, errs := heritage.ParseFilter(r.URL.Query())

	data := siteFilterPage{
		page:      s.page(r, "Filter Heritage Sites"),
		Filter:    filter,
		Errors:    errs,
		Orderings: orderingOptions,
	}

	var err error
	if data.Sites, err = s.sites.FilterSites(ctx, filter); err != nil {
		s.serverError(w, r, err)
		return
	}
	if data.Categories, err = s.sites.ListCategories(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if data.Regions, err = s.locations.ListRegions(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if data.SubRegions, err = s.locations.ListSubRegions(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if data.IntermediateRegions, err = s.locations.ListIntermediateRegions(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if data.Countries, err = s.locations.ListAllCountries(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "site_filter.html", data)
}

type siteDetailPage struct {
	page
	Site           *heritage.Site
	Countries      []location.CountryArea
	CountrySummary string
	RegionSummary  string
	History        []audit.Entry
}

func (s *Server) handleSiteDetail(w http.ResponseWriter, r *http.Request) {
	site, ok := s.loadSite(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	countries, err := s.siteCountries(r, site.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := siteDetailPage{
		page:           s.page(r, site.Name),
		Site:           site,
		Countries:      countries,
		CountrySummary: location.CountrySummary(countries),
		RegionSummary:  location.RegionSummary(countries),
	}

	if data.Session != nil {
		history, err := s.audit.ListForEntity(ctx, audit.EntitySite, strconv.FormatInt(site.ID, 10), s.catalog.HistoryLimit)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		data.History = history
	}

	s.render(w, r, http.StatusOK, "site_detail.html", data)
}

type siteFormPage struct {
	page
	Action     string
	Site       *heritage.Site // nil when creating
	Form       heritage.SiteForm
	Errors     heritage.FieldErrors
	Categories []heritage.Category
	Countries  []location.CountryArea
}

func (s *Server) handleSiteCreateForm(w http.ResponseWriter, r *http.Request) {
	s.renderSiteForm(w, r, http.StatusOK, siteFormPage{
		page:   s.page(r, "New Heritage Site"),
		Action: "/sites/new",
	})
}

func (s *Server) handleSiteCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	form := heritage.FormFromValues(r.PostForm)
	site, countryIDs, errs := s.validateSite(r, form)
	if !errs.Any() {
		err := s.sites.CreateSite(ctx, site, countryIDs)
		if err != nil && !s.foreignKeyFieldError(err, errs) {
			s.serverError(w, r, err)
			return
		}
	}
	if errs.Any() {
		s.renderSiteForm(w, r, http.StatusUnprocessableEntity, siteFormPage{
			page:   s.page(r, "New Heritage Site"),
			Action: "/sites/new",
			Form:   form,
			Errors: errs,
		})
		return
	}

	change := heritage.DiffJurisdictions(nil, countryIDs)
	s.recordChange(r, audit.ActionCreate, site, map[string]any{
		"site_name": site.Name,
		"countries": countryIDs,
	})
	s.events.Publish(ctx, events.SiteEvent(events.ActionCreated, site, countryIDs, change, userID(r)))

	http.Redirect(w, r, siteURL(site.ID), http.StatusSeeOther)
}

func (s *Server) handleSiteUpdateForm(w http.ResponseWriter, r *http.Request) {
	site, ok := s.loadSite(w, r)
	if !ok {
		return
	}
	countryIDs, err := s.sites.JurisdictionCountryIDs(r.Context(), site.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.renderSiteForm(w, r, http.StatusOK, siteFormPage{
		page:   s.page(r, "Update "+site.Name),
		Action: siteURL(site.ID) + "/update",
		Site:   site,
		Form:   heritage.FormFromSite(site, countryIDs),
	})
}

func (s *Server) handleSiteUpdate(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadSite(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	form := heritage.FormFromValues(r.PostForm)
	site, countryIDs, errs := s.validateSite(r, form)
	var change heritage.JurisdictionChange
	if !errs.Any() {
		site.ID = existing.ID
		var err error
		change, err = s.sites.UpdateSite(ctx, site, countryIDs)
		switch {
		case errors.Is(err, heritage.ErrSiteNotFound):
			s.notFound(w, r)
			return
		case err != nil && !s.foreignKeyFieldError(err, errs):
			s.serverError(w, r, err)
			return
		}
	}
	if errs.Any() {
		s.renderSiteForm(w, r, http.StatusUnprocessableEntity, siteFormPage{
			page:   s.page(r, "Update "+existing.Name),
			Action: siteURL(existing.ID) + "/update",
			Site:   existing,
			Form:   form,
			Errors: errs,
		})
		return
	}

	s.recordChange(r, audit.ActionUpdate, site, map[string]any{
		"site_name": site.Name,
		"added":     change.Added,
		"removed":   change.Removed,
	})
	s.events.Publish(ctx, events.SiteEvent(events.ActionUpdated, site, countryIDs, change, userID(r)))

	http.Redirect(w, r, siteURL(site.ID), http.StatusSeeOther)
}

type siteDeletePage struct {
	page
	Site *heritage.Site
}

func (s *Server) handleSiteDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	site, ok := s.loadSite(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "site_delete.html", siteDeletePage{
		page: s.page(r, "Delete "+site.Name),
		Site: site,
	})
}

func (s *Server) handleSiteDelete(w http.ResponseWriter, r *http.Request) {
	site, ok := s.loadSite(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	previous, err := s.sites.JurisdictionCountryIDs(ctx, site.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if err := s.sites.DeleteSite(ctx, site.ID); err != nil {
		if errors.Is(err, heritage.ErrSiteNotFound) {
			s.notFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	change := heritage.DiffJurisdictions(previous, nil)
	s.recordChange(r, audit.ActionDelete, site, map[string]any{
		"site_name": site.Name,
		"countries": previous,
	})
	s.events.Publish(ctx, events.SiteEvent(events.ActionDeleted, site, nil, change, userID(r)))

	http.Redirect(w, r, "/sites", http.StatusSeeOther)
}

// loadSite resolves the {id} URL parameter. It renders a 404 for malformed
// or unknown IDs and reports whether the handler should continue.
func (s *Server) loadSite(w http.ResponseWriter, r *http.Request) (*heritage.Site, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.notFound(w, r)
		return nil, false
	}

	site, err := s.sites.GetSite(r.Context(), id)
	if err != nil {
		if errors.Is(err, heritage.ErrSiteNotFound) {
			s.notFound(w, r)
			return nil, false
		}
		s.serverError(w, r, err)
		return nil, false
	}
	return site, true
}

func (s *Server) siteCountries(r *http.Request, siteID int64) ([]location.CountryArea, error) {
	ids, err := s.sites.JurisdictionCountryIDs(r.Context(), siteID)
	if err != nil {
		return nil, err
	}
	return s.locations.ListCountriesByIDs(r.Context(), ids)
}

// validateSite checks the form and confirms the selected category and
// countries exist. On success site.Category is loaded.
func (s *Server) validateSite(r *http.Request, form heritage.SiteForm) (*heritage.Site, []int64, heritage.FieldErrors) {
	ctx := r.Context()
	site, countryIDs, errs := form.Validate()

	if errs.Get("category") == "" {
		category, err := s.sites.GetCategory(ctx, site.CategoryID)
		switch {
		case errors.Is(err, heritage.ErrCategoryNotFound):
			errs.Add("category", "Select a valid choice.")
		case err != nil:
			errs.Add("category", "Categories are unavailable, try again.")
			s.logger.Error("loading category", "error", err, "request_id", requestIDFromContext(ctx))
		default:
			site.Category = category
		}
	}

	if errs.Get("country_area") == "" {
		found, err := s.locations.ListCountriesByIDs(ctx, countryIDs)
		switch {
		case err != nil:
			errs.Add("country_area", "Countries are unavailable, try again.")
			s.logger.Error("loading countries", "error", err, "request_id", requestIDFromContext(ctx))
		case len(found) != len(countryIDs):
			errs.Add("country_area", "Select a valid choice.")
		}
	}

	return site, countryIDs, errs
}

// foreignKeyFieldError maps a reference that vanished between validation
// and commit onto the form. It reports whether err was handled.
func (s *Server) foreignKeyFieldError(err error, errs heritage.FieldErrors) bool {
	switch {
	case errors.Is(err, heritage.ErrCategoryNotFound):
		errs.Add("category", "Select a valid choice.")
		return true
	case errors.Is(err, heritage.ErrUnknownCountry):
		errs.Add("country_area", "Select a valid choice.")
		return true
	}
	return false
}

func (s *Server) renderSiteForm(w http.ResponseWriter, r *http.Request, status int, data siteFormPage) {
	ctx := r.Context()
	var err error
	if data.Categories, err = s.sites.ListCategories(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if data.Countries, err = s.locations.ListAllCountries(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if data.Errors == nil {
		data.Errors = heritage.FieldErrors{}
	}
	s.render(w, r, status, "site_form.html", data)
}

// recordChange writes the audit entry for a committed site mutation.
// The change is already persisted, so a failure is logged only.
func (s *Server) recordChange(r *http.Request, action string, site *heritage.Site, details map[string]any) {
	if claims := sessionFromContext(r.Context()); claims != nil {
		details["user"] = claims.Username
	}
	entry := &audit.Entry{
		Action:     action,
		EntityType: audit.EntitySite,
		EntityID:   strconv.FormatInt(site.ID, 10),
		UserID:     userID(r),
		Source:     audit.SourceWeb,
		Details:    details,
	}
	if err := s.audit.Create(r.Context(), entry); err != nil {
		s.logger.Warn("audit entry not recorded",
			"action", action,
			"site_id", site.ID,
			"error", err,
			"request_id", requestIDFromContext(r.Context()),
		)
	}
}

func userID(r *http.Request) string {
	if claims := sessionFromContext(r.Context()); claims != nil {
		return claims.Subject
	}
	return ""
}

func siteURL(id int64) string {
	return fmt.Sprintf("/sites/%d", id)
}
