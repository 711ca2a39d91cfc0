package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/heritage-sites/internal/heritage"
	"github.com/nerrad567/heritage-sites/internal/location"
)

type countryListPage struct {
	page
	Countries []location.CountryArea
	Page      pagination
}

func (s *Server) handleCountryList(w http.ResponseWriter, r *http.Request) {
	number, ok := requestedPage(r)
	if !ok {
		s.notFound(w, r)
		return
	}

	size := s.catalog.CountriesPerPage
	countries, total, err := s.locations.ListCountries(r.Context(), size, pageOffset(number, size))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	p, ok := newPagination(number, size, total)
	if !ok {
		s.notFound(w, r)
		return
	}

	s.render(w, r, http.StatusOK, "country_list.html", countryListPage{
		page:      s.page(r, "Countries and Areas"),
		Countries: countries,
		Page:      p,
	})
}

type countryDetailPage struct {
	page
	Country *location.CountryArea
	Sites   []heritage.Site
}

func (s *Server) handleCountryDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.notFound(w, r)
		return
	}

	country, err := s.locations.GetCountry(r.Context(), id)
	if err != nil {
		if errors.Is(err, location.ErrCountryNotFound) {
			s.notFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	sites, err := s.sites.FilterSites(r.Context(), heritage.Filter{CountryID: id, Ordering: heritage.DefaultOrdering})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "country_detail.html", countryDetailPage{
		page:    s.page(r, country.Name),
		Country: country,
		Sites:   sites,
	})
}
