package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nerrad567/heritage-sites/internal/audit"
	"github.com/nerrad567/heritage-sites/internal/auth"
	"github.com/nerrad567/heritage-sites/internal/metrics"
)

type loginPage struct {
	page
	Username string
	Next     string
	Error    string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", loginPage{
		page: s.page(r, "Log in"),
		Next: safeNext(r.URL.Query().Get("next")),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	next := safeNext(r.PostForm.Get("next"))

	user, err := auth.Authenticate(ctx, s.users, username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) && !errors.Is(err, auth.ErrUserInactive) {
			s.serverError(w, r, err)
			return
		}
		metrics.RecordLogin(false)
		s.logger.Info("login rejected",
			"username", username,
			"reason", err.Error(),
			"request_id", requestIDFromContext(ctx),
		)
		s.render(w, r, http.StatusUnauthorized, "login.html", loginPage{
			page:     s.page(r, "Log in"),
			Username: username,
			Next:     next,
			Error:    "Please enter a correct username and password.",
		})
		return
	}

	token, err := auth.IssueSession(user, s.session.Secret, s.session.SessionTTL())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	metrics.RecordLogin(true)
	s.setSessionCookie(w, token)

	entry := &audit.Entry{
		Action:     audit.ActionLogin,
		EntityType: audit.EntityUser,
		EntityID:   user.ID,
		UserID:     user.ID,
		Source:     audit.SourceWeb,
		Details:    map[string]any{"username": user.Username},
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("audit entry not recorded", "action", audit.ActionLogin, "error", err)
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

type logoutPage struct {
	page
	LoggedOut bool
}

// handleLogoutConfirm asks for confirmation. Only the POST ends the session.
func (s *Server) handleLogoutConfirm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "logout.html", logoutPage{page: s.page(r, "Log out")})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	s.render(w, r, http.StatusOK, "logout.html", logoutPage{
		page:      page{Title: "Logged out"},
		LoggedOut: true,
	})
}
