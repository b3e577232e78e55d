package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/core/calendar"
	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/core/services"
	"github.com/coe-onsite/onsite-manager/pkg/core/workspace"
	"github.com/coe-onsite/onsite-manager/pkg/db"
)

const schoolNameRequiredMessage = "請輸入學校名稱"

// HealthResponse is the response body for GET /health
type HealthResponse struct {
	Status string `json:"status"`
}

// formInput is the draft as posted by the form page
type formInput struct {
	SchoolName        string `form:"schoolName" query:"schoolName"`
	ApplicantName     string `form:"applicantName" query:"applicantName"`
	Phone             string `form:"phone" query:"phone"`
	ConfirmedDate     string `form:"confirmedDate" query:"confirmedDate"`
	StartTime         string `form:"startTime" query:"startTime"`
	EndTime           string `form:"endTime" query:"endTime"`
	FirstChoiceDate   string `form:"firstChoiceDate" query:"firstChoiceDate"`
	FirstChoiceStart  string `form:"firstChoiceStart" query:"firstChoiceStart"`
	FirstChoiceEnd    string `form:"firstChoiceEnd" query:"firstChoiceEnd"`
	SecondChoiceDate  string `form:"secondChoiceDate" query:"secondChoiceDate"`
	SecondChoiceStart string `form:"secondChoiceStart" query:"secondChoiceStart"`
	SecondChoiceEnd   string `form:"secondChoiceEnd" query:"secondChoiceEnd"`
	DateOther         string `form:"dateOther" query:"dateOther"`
	ParticipantCount  string `form:"participantCount" query:"participantCount"`
	Difficulties      string `form:"difficulties" query:"difficulties"`
	Expectations      string `form:"expectations" query:"expectations"`
	Status            string `form:"status" query:"status"`
	CustomStaff       string `form:"customStaff" query:"customStaff"`
}

func (in formInput) apply(f *model.Form) {
	f.SchoolName = in.SchoolName
	f.ApplicantName = in.ApplicantName
	f.Phone = in.Phone
	f.ConfirmedDate = in.ConfirmedDate
	f.StartTime = in.StartTime
	f.EndTime = in.EndTime
	f.FirstChoiceDate = in.FirstChoiceDate
	f.FirstChoiceStart = in.FirstChoiceStart
	f.FirstChoiceEnd = in.FirstChoiceEnd
	f.SecondChoiceDate = in.SecondChoiceDate
	f.SecondChoiceStart = in.SecondChoiceStart
	f.SecondChoiceEnd = in.SecondChoiceEnd
	f.DateOther = in.DateOther
	f.ParticipantCount = in.ParticipantCount
	f.Difficulties = in.Difficulties
	f.Expectations = in.Expectations
	if in.Status != "" {
		f.Status = model.Status(in.Status)
	}
}

// pageData is what the page template renders
type pageData struct {
	State    workspace.State
	Records  []model.ApplicationRecord
	Statuses []model.Status
	Filters  []string
	Message  string
}

var statusFilters = []string{model.StatusFilterAll, string(model.StatusProcessing), string(model.StatusCompleted)}

func (s *Server) render(c echo.Context, code int, message string) error {
	return c.Render(code, "page.html", pageData{
		State:    s.workspace.Snapshot(),
		Records:  s.workspace.Filtered(),
		Statuses: model.Statuses,
		Filters:  statusFilters,
		Message:  message,
	})
}

func redirect(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}

// applyInput copies posted draft fields into the workspace.
// Requests that carry no draft fields (buttons outside the main form) leave it alone.
func (s *Server) applyInput(c echo.Context) error {
	var params url.Values
	var err error
	if c.Request().Method == http.MethodGet {
		params = c.QueryParams()
	} else {
		params, err = c.FormParams()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form body")
		}
	}
	if _, ok := params["schoolName"]; !ok {
		return nil
	}

	var in formInput
	if err := c.Bind(&in); err != nil {
		s.logger.Warn("invalid form input", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form input")
	}

	s.workspace.UpdateForm(in.apply)
	s.workspace.SetCustomStaff(in.CustomStaff)
	return nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleIndex(c echo.Context) error {
	return s.render(c, http.StatusOK, "")
}

func (s *Server) handleShowForm(c echo.Context) error {
	s.workspace.ShowForm()
	return s.render(c, http.StatusOK, "")
}

func (s *Server) handleUpdateForm(c echo.Context) error {
	if err := s.applyInput(c); err != nil {
		return err
	}
	return redirect(c, "/")
}

func (s *Server) handleUploadPDF(c echo.Context) error {
	file, err := c.FormFile("pdf")
	if err != nil {
		return s.render(c, http.StatusBadRequest, "請選取 PDF 檔案")
	}
	if file.Size > s.config.MaxUploadBytes {
		return s.render(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("檔案過大 (上限 %d MB)", s.config.MaxUploadBytes>>20))
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	pdf, err := io.ReadAll(io.LimitReader(src, s.config.MaxUploadBytes))
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	if err := s.workspace.UploadPDF(c.Request().Context(), pdf); err != nil {
		s.logger.Warn("pdf upload failed", zap.String("filename", file.Filename), zap.Error(err))
		return s.render(c, http.StatusBadGateway, err.Error())
	}
	return redirect(c, "/")
}

func (s *Server) handleSelectDate(c echo.Context) error {
	if err := s.applyInput(c); err != nil {
		return err
	}
	if err := s.workspace.SelectDate(model.DateChoice(c.Param("choice"))); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return redirect(c, "/")
}

func (s *Server) handleToggleStaff(c echo.Context) error {
	if err := s.applyInput(c); err != nil {
		return err
	}
	name := c.FormValue("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	s.workspace.ToggleStaff(name)
	return redirect(c, "/")
}

func (s *Server) handleAddStaff(c echo.Context) error {
	if err := s.applyInput(c); err != nil {
		return err
	}
	s.workspace.AddCustomStaff(c.FormValue("name"))
	return redirect(c, "/")
}

func (s *Server) handleSave(c echo.Context) error {
	if err := s.applyInput(c); err != nil {
		return err
	}

	_, err := s.workspace.Save(c.Request().Context())
	switch {
	case errors.Is(err, services.ErrSchoolNameRequired):
		return s.render(c, http.StatusUnprocessableEntity, schoolNameRequiredMessage)
	case errors.Is(err, services.ErrInvalidStatus):
		return s.render(c, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		return s.render(c, http.StatusBadGateway, "")
	}
	return redirect(c, "/")
}

func (s *Server) handleReset(c echo.Context) error {
	s.workspace.CancelEdit()
	return redirect(c, "/")
}

func (s *Server) handleFormCalendar(c echo.Context) error {
	if err := s.applyInput(c); err != nil {
		return err
	}
	draft := s.workspace.Snapshot().Form.ToRecord("", "")
	return c.Redirect(http.StatusFound, calendar.EventURL(draft, s.workspace.Location()))
}

func (s *Server) handleShowList(c echo.Context) error {
	if status := c.QueryParam("status"); status != "" {
		if err := s.workspace.SetFilter(status); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	if err := s.workspace.ShowList(c.Request().Context()); err != nil {
		return s.render(c, http.StatusOK, "讀取紀錄失敗")
	}
	return s.render(c, http.StatusOK, "")
}

func (s *Server) handleRefresh(c echo.Context) error {
	// Failures are logged by the workspace and the current list stays
	_ = s.workspace.Refresh(c.Request().Context())
	return redirect(c, "/records")
}

func (s *Server) handleToggleRecord(c echo.Context) error {
	s.workspace.Toggle(c.Param("id"))
	return redirect(c, "/records")
}

func (s *Server) handleEdit(c echo.Context) error {
	if err := s.workspace.Edit(c.Param("id")); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return err
	}
	return redirect(c, "/")
}

func (s *Server) handleSetStatus(c echo.Context) error {
	err := s.workspace.SetStatus(c.Request().Context(), c.Param("id"), model.Status(c.FormValue("status")))
	if errors.Is(err, services.ErrInvalidStatus) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return redirect(c, "/records")
}

func (s *Server) handleRequestDelete(c echo.Context) error {
	s.workspace.RequestDelete(c.Param("id"))
	return redirect(c, "/records")
}

func (s *Server) handleCancelDelete(c echo.Context) error {
	s.workspace.CancelDelete()
	return redirect(c, "/records")
}

func (s *Server) handleConfirmDelete(c echo.Context) error {
	_ = s.workspace.ConfirmDelete(c.Request().Context(), c.Param("id"))
	return redirect(c, "/records")
}

func (s *Server) handleRecordCalendar(c echo.Context) error {
	r, err := s.workspace.Record(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}
	return c.Redirect(http.StatusFound, calendar.EventURL(r, s.workspace.Location()))
}

func (s *Server) handleAPIRecords(c echo.Context) error {
	filter := c.QueryParam("status")
	if filter != "" && filter != model.StatusFilterAll && !model.Status(filter).IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}

	if err := s.workspace.EnsureLoaded(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load records")
	}

	records := services.FilterByStatus(s.workspace.Snapshot().Records, filter)
	return c.JSON(http.StatusOK, records)
}
