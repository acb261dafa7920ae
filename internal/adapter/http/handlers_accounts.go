package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/schoolforge/internal/domain/profile"
	"github.com/Strob0t/schoolforge/internal/domain/user"
	"github.com/Strob0t/schoolforge/internal/service"
)

type accountResponse struct {
	User    *user.User `json:"user"`
	Profile any        `json:"profile"`
}

// CreateAccount handles POST /accounts/{role}. The school always comes from
// the session, whatever the body says.
func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	sid := schoolID(r)

	var (
		res *service.Result
		err error
	)
	switch chi.URLParam(r, "role") {
	case "students":
		in, ok := readJSON[profile.StudentInput](w, r, h.BodyLimit)
		if !ok {
			return
		}
		in.SchoolID = sid
		res, err = h.Accounts.SeedStudent(r.Context(), in)
	case "teachers":
		in, ok := readJSON[profile.TeacherInput](w, r, h.BodyLimit)
		if !ok {
			return
		}
		in.SchoolID = sid
		res, err = h.Accounts.SeedTeacher(r.Context(), in)
	case "staff":
		in, ok := readJSON[profile.StaffInput](w, r, h.BodyLimit)
		if !ok {
			return
		}
		in.SchoolID = sid
		res, err = h.Accounts.SeedStaff(r.Context(), in)
	case "parents":
		in, ok := readJSON[profile.ParentInput](w, r, h.BodyLimit)
		if !ok {
			return
		}
		in.SchoolID = &sid
		res, err = h.Accounts.SeedParent(r.Context(), in)
	default:
		writeError(w, http.StatusNotFound, "Unknown account type")
		return
	}
	if err != nil {
		writeDomainError(w, r, err, "Failed to create account")
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse{User: res.Account, Profile: res.Profile()})
}
