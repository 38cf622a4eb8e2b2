package ingestion

import (
	"net/http"

	apperrors "github.com/AKNosov/InfSearch/pkg/errors"
)

var (
	errEmptyURL     = apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "page url is empty")
	errEmptyText    = apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "page text is empty")
	errTextTooLarge = apperrors.Newf(apperrors.ErrPageTooLarge, http.StatusBadRequest, "page text exceeds %d bytes", MaxTextBytes)
)
