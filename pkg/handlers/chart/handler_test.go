package chart

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/de-tools/purchase-atlas/pkg/models/api"
	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/de-tools/purchase-atlas/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Generate(seed uint64) (domain.Dataset, error) {
	args := m.Called(seed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Dataset), args.Error(1)
}

func (m *mockService) Summaries(ds domain.Dataset) []domain.SegmentSummary {
	return m.Called(ds).Get(0).([]domain.SegmentSummary)
}

func (m *mockService) RenderTo(w io.Writer, seed uint64) (*render.Result, error) {
	args := m.Called(w, seed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	_, _ = w.Write([]byte("png-bytes"))
	return args.Get(0).(*render.Result), args.Error(1)
}

var sampleDataset = domain.Dataset{
	{Segment: "Low value", Amount: 10},
	{Segment: "Low value", Amount: 30},
}

func TestGetSegments(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*mockService)
		expectedStatus int
		expectedSeed   uint64
	}{
		{
			name:  "default seed",
			query: "",
			setupMock: func(m *mockService) {
				m.On("Generate", uint64(42)).Return(sampleDataset, nil)
				m.On("Summaries", sampleDataset).Return([]domain.SegmentSummary{{Segment: "Low value", Count: 2, Median: 20}})
			},
			expectedStatus: http.StatusOK,
			expectedSeed:   42,
		},
		{
			name:  "explicit seed",
			query: "?seed=7",
			setupMock: func(m *mockService) {
				m.On("Generate", uint64(7)).Return(sampleDataset, nil)
				m.On("Summaries", sampleDataset).Return([]domain.SegmentSummary{{Segment: "Low value", Count: 2, Median: 20}})
			},
			expectedStatus: http.StatusOK,
			expectedSeed:   7,
		},
		{
			name:           "invalid seed",
			query:          "?seed=abc",
			setupMock:      func(*mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "generation error",
			query: "",
			setupMock: func(m *mockService) {
				m.On("Generate", uint64(42)).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)
			h := NewHandler(svc, 42)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/segments"+tt.query, nil)
			w := httptest.NewRecorder()
			h.GetSegments(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var body api.DatasetSummary
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.expectedSeed, body.Seed)
			assert.Equal(t, 2, body.Records)
			require.Len(t, body.Segments, 1)
			assert.Equal(t, "Median: $20.00", body.Segments[0].Label)
			svc.AssertExpectations(t)
		})
	}
}

func TestGetChart(t *testing.T) {
	svc := new(mockService)
	svc.On("RenderTo", mock.Anything, uint64(3)).Return(&render.Result{UpperBound: 100}, nil)
	h := NewHandler(svc, 42)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chart.png?seed=3", nil)
	w := httptest.NewRecorder()
	h.GetChart(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", w.Body.String())
	svc.AssertExpectations(t)
}

func TestGetChart_RenderError(t *testing.T) {
	svc := new(mockService)
	svc.On("RenderTo", mock.Anything, uint64(42)).Return(nil, errors.New("boom"))
	h := NewHandler(svc, 42)

	w := httptest.NewRecorder()
	h.GetChart(w, httptest.NewRequest(http.MethodGet, "/api/v1/chart.png", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, "image/png", w.Header().Get("Content-Type"))
}
