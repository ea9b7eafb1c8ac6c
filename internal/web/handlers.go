package web

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/JonMunkholm/covidconv/internal/core"
	"github.com/JonMunkholm/covidconv/internal/dataset"
	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of a form is buffered in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// RawInputField is the form field carrying raw-layout input files.
const RawInputField = "input"

// FormatResponse describes one registered format.
type FormatResponse struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Shape   string   `json:"shape"`
	Source  string   `json:"source"`
	Outputs []string `json:"outputs"`
}

func formatResponses() []FormatResponse {
	all := core.All()
	resp := make([]FormatResponse, 0, len(all))
	for _, f := range all {
		resp = append(resp, FormatResponse{
			Name:    f.Info.Name,
			Label:   f.Info.Label,
			Shape:   string(f.Shape()),
			Source:  f.Info.Source,
			Outputs: core.OutputNames(f),
		})
	}
	return resp
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := IndexPage(formatResponses()).Render(r.Context(), w); err != nil {
		respondError(w, r, err)
	}
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string             `json:"status"`
	Formats int                `json:"formats"`
	Limiter core.LimiterStatus `json:"limiter"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Formats: core.FormatCount(),
		Limiter: s.limiter.Status(),
	})
}

func (s *Server) handleListFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formatResponses())
}

// handleConvert converts the uploaded files.
//
// Raw-layout input arrives as one or more files in the "input" field;
// aspect-layout input as exactly one file in each of "confirmed",
// "recovered" and "dead". The field name tags the aspect. A raw-layout
// result is returned as text/csv, an aspect-layout result as a zip of the
// three files.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	in, err := core.Lookup(chi.URLParam(r, "input"))
	if err != nil {
		respondError(w, r, fmt.Errorf("input format: %w", err))
		return
	}
	out, err := core.Lookup(chi.URLParam(r, "output"))
	if err != nil {
		respondError(w, r, fmt.Errorf("output format: %w", err))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		respondError(w, r, fmt.Errorf("%w: parse upload: %w", core.ErrOpenInput, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	inputs, closeAll, err := formInputs(in, r.MultipartForm)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeAll()

	if err := s.limiter.Acquire(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	defer s.limiter.Release()

	outputs := map[string]*bytes.Buffer{}
	result, err := s.converter.Convert(r.Context(), in, out, inputs, func(name string) (io.WriteCloser, error) {
		buf := &bytes.Buffer{}
		outputs[name] = buf
		return nopWriteCloser{buf}, nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("X-Run-ID", result.RunID.String())

	if out.Shape() == core.ShapeRaw {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+core.RawOutputName+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(outputs[core.RawOutputName].Bytes())
		return
	}

	archive, err := zipOutputs(result.Outputs, outputs)
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: zip outputs: %v", core.ErrIO, err))
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="output.zip"`)
	w.WriteHeader(http.StatusOK)
	w.Write(archive)
}

// formInputs opens the uploaded files for format f. The caller must call
// the returned close function.
func formInputs(f core.Format, form *multipart.Form) ([]core.Input, func(), error) {
	var (
		files  []multipart.File
		inputs []core.Input
	)
	closeAll := func() {
		for _, fh := range files {
			fh.Close()
		}
	}

	open := func(h *multipart.FileHeader, a dataset.Aspect) error {
		fh, err := h.Open()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", core.ErrOpenInput, h.Filename, err)
		}
		files = append(files, fh)
		inputs = append(inputs, core.Input{Name: h.Filename, Aspect: a, Reader: fh})
		return nil
	}

	if f.Shape() == core.ShapeRaw {
		headers := form.File[RawInputField]
		if err := core.CheckInputCount(f, len(headers)); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", RawInputField, err)
		}
		for _, h := range headers {
			if err := open(h, dataset.Confirmed); err != nil {
				closeAll()
				return nil, nil, err
			}
		}
		return inputs, closeAll, nil
	}

	for _, a := range dataset.Aspects {
		headers := form.File[a.String()]
		if len(headers) != 1 {
			closeAll()
			return nil, nil, fmt.Errorf("%w: field %q needs exactly 1 file, got %d",
				core.ErrInputCount, a.String(), len(headers))
		}
		if err := open(headers[0], a); err != nil {
			closeAll()
			return nil, nil, err
		}
	}
	return inputs, closeAll, nil
}

// zipOutputs packs the named buffers into a zip archive, in order.
func zipOutputs(names []string, outputs map[string]*bytes.Buffer) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(outputs[name].Bytes()); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
