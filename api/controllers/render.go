package controllers

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/angelmondragon/sgr-storefront/api/templates"
	apperrors "github.com/angelmondragon/sgr-storefront/pkg/errors"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
)

// Renderer executes the embedded page templates. Pages render into a buffer
// first so a template error never leaves a half-written response.
type Renderer struct {
	tmpl *template.Template
	logg *logger.Logger
}

func NewRenderer(logg *logger.Logger) (*Renderer, error) {
	tmpl, err := templates.Parse()
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, logg: logg}, nil
}

func (rn *Renderer) Render(ctx context.Context, w http.ResponseWriter, page string, data any) {
	var buf bytes.Buffer
	if err := rn.tmpl.ExecuteTemplate(&buf, page, data); err != nil {
		if rn.logg != nil {
			rn.logg.Error(ctx, "template render failed", err)
		}
		http.Error(w, "Si è verificato un errore, riprova", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// publicMessage maps an error to the Italian copy shown inline.
func publicMessage(err error) string {
	if err == nil {
		return ""
	}
	typed := apperrors.As(err)
	if typed == nil {
		return apperrors.MetadataFor(apperrors.CodeInternal).PublicMessage
	}
	meta := apperrors.MetadataFor(typed.Code())
	if typed.Code() == apperrors.CodeValidation && typed.Message() != "" {
		return typed.Message()
	}
	return meta.PublicMessage
}
