package records

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/EsakiSelvam05/pq-tracker-v2/internal/platform/httpx"
)

// Handler exposes the records service over JSON.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	maxUpload int64
}

func NewHandler(logger *slog.Logger, service *Service, maxUpload int64) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		maxUpload: maxUpload,
	}
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	var req SaveRecordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		var fields []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				fields = append(fields, fieldErr.Field())
			}
		}
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed",
			"missing required fields: "+strings.Join(fields, ", "))
		return
	}

	rec := Record{
		ID:                   req.ID,
		Date:                 req.Date,
		ShipperName:          req.ShipperName,
		Buyer:                req.Buyer,
		InvoiceNumber:        req.InvoiceNumber,
		Commodity:            req.Commodity,
		ShippingBillReceived: req.ShippingBillReceived,
		PQStatus:             req.PQStatus,
		PQHardcopy:           req.PQHardcopy,
		PermitCopyStatus:     req.PermitCopyStatus,
		DestinationPort:      req.DestinationPort,
		Remarks:              req.Remarks,
		FileStored:           req.AttachmentStored,
	}
	if req.Attachment != nil {
		upload, err := DecodeAttachment(FileBlob{
			Name: req.Attachment.Name,
			Type: req.Attachment.Type,
			Data: req.Attachment.Data,
		})
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "attachment payload is not valid base64")
			return
		}
		rec.Upload = upload
	}

	saved, err := h.service.Save(r.Context(), rec)
	if err != nil {
		h.logger.Error("save record failed", "id", rec.ID, "error", err)
		h.respondPersistence(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(saved))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.FetchAll(r.Context(), listFilterFromQuery(r))
	if err != nil {
		h.logger.Error("fetch records failed", "error", err)
		h.respondPersistence(w, err)
		return
	}
	resp := make([]RecordResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, toResponse(rec))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("stats failed", "error", err)
		h.respondPersistence(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.logger.Error("delete record failed", "id", id, "error", err)
		h.respondPersistence(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Attachment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	file, err := h.service.FetchAttachment(r.Context(), id)
	if err != nil {
		h.logger.Error("fetch attachment failed", "id", id, "error", err)
		h.respondPersistence(w, err)
		return
	}
	if file == nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no attachment for this record")
		return
	}
	contentType := file.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

func (h *Handler) AttachmentInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	info, err := h.service.AttachmentInfo(r.Context(), id)
	if err != nil {
		h.logger.Error("fetch attachment info failed", "id", id, "error", err)
		h.respondPersistence(w, err)
		return
	}
	if info == nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no attachment for this record")
		return
	}
	httpx.JSON(w, http.StatusOK, info)
}

// AutoFill analyzes an uploaded spreadsheet and returns the field updates
// the matcher could derive. A file that matches nothing is still a success;
// the response carries the header row so the user can see why.
func (h *Handler) AutoFill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "expected a multipart file upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing file field")
		return
	}
	defer file.Close()

	if !IsSpreadsheet(header.Filename) {
		httpx.JSON(w, http.StatusOK, AutoFillResponse{
			Updates:       FieldUpdates{},
			MatchedFields: []string{},
			Message:       "auto-analysis is only available for Excel files; fill the form manually",
		})
		return
	}

	updates, headers, err := AutoFill(file)
	if errors.Is(err, ErrNoDataRows) {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "spreadsheet has no header or data rows")
		return
	}
	if err != nil {
		h.logger.Error("spreadsheet analysis failed", "file", header.Filename, "error", err)
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "could not read spreadsheet")
		return
	}

	resp := AutoFillResponse{Updates: updates, MatchedFields: []string{}}
	for field := range updates {
		resp.MatchedFields = append(resp.MatchedFields, field.Label())
	}
	if len(updates) == 0 {
		resp.Headers = headers
		resp.Message = "no matching data fields were found"
	} else {
		resp.Message = "file analyzed successfully"
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Migrate runs the one-shot legacy store migration and reports the
// aggregate outcome. Per-record failures are part of the report, not an
// HTTP error.
func (h *Handler) Migrate(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.MigrateLegacyStore(r.Context())
	if err != nil {
		h.logger.Error("legacy migration failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Migration Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) respondPersistence(w http.ResponseWriter, err error) {
	var perr *PersistenceError
	if errors.As(err, &perr) {
		httpx.Problem(w, http.StatusBadGateway, "Persistence Failed", perr.Error())
		return
	}
	httpx.RespondError(w, err)
}

func listFilterFromQuery(r *http.Request) ListFilter {
	q := r.URL.Query()
	filter := ListFilter{}
	text := func(key string) *string {
		if v := q.Get(key); v != "" {
			return &v
		}
		return nil
	}
	filter.ShipperName = text("shipperName")
	filter.Buyer = text("buyer")
	filter.InvoiceNumber = text("invoiceNumber")
	filter.DestinationPort = text("destinationPort")
	filter.PQStatus = text("pqStatus")
	filter.PQHardcopy = text("pqHardcopy")
	filter.PermitCopyStatus = text("permitCopyStatus")
	filter.DateFrom = text("dateFrom")
	filter.DateTo = text("dateTo")
	if v := q.Get("shippingBillReceived"); v != "" {
		received := v == "true" || v == "Yes"
		filter.ShippingBillReceived = &received
	}
	return filter
}
