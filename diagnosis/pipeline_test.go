package diagnosis

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflens-ai/go-diagnose/inference"
	"github.com/leaflens-ai/go-diagnose/models"
)

// fakeRuntime computes its output from the input, so tests can observe
// whether masking actually reached the classifier.
type fakeRuntime struct {
	inputLen  int
	outputLen int
	fn        func(input []float32) []float32
	err       error
}

func (f *fakeRuntime) Run(input []float32) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.fn(input), nil
}

func (f *fakeRuntime) InputLen() int  { return f.inputLen }
func (f *fakeRuntime) OutputLen() int { return f.outputLen }
func (f *fakeRuntime) Close() error   { return nil }

const testSize = 8

// meanClassifier emits three scores derived from the mean input intensity:
// a high score, a mid score, and one below any sane threshold. Masking the
// input to zero drives all of them to zero.
func meanClassifier() *fakeRuntime {
	return &fakeRuntime{
		inputLen:  3 * testSize * testSize,
		outputLen: 3,
		fn: func(input []float32) []float32 {
			var sum float32
			for _, v := range input {
				sum += v
			}
			mean := sum / float32(len(input))
			return []float32{mean, mean / 2, mean / 100}
		},
	}
}

func constantSegmenter(value float32) *fakeRuntime {
	return &fakeRuntime{
		inputLen:  3 * testSize * testSize,
		outputLen: testSize * testSize,
		fn: func([]float32) []float32 {
			out := make([]float32, testSize*testSize)
			for i := range out {
				out[i] = value
			}
			return out
		},
	}
}

func pipelineLabels() *models.LabelTable {
	return &models.LabelTable{Classes: []models.ClassInfo{
		{Label: "Bacterial Spot", Category: models.CategoryDisease},
		{Label: "Nutrient Deficiency", Category: models.CategoryDeficiency},
		{Label: "Healthy", Category: models.CategoryOther},
	}}
}

func readyRegistry(t *testing.T, segmentation inference.Runtime) *models.Registry {
	t.Helper()

	reg := models.NewRegistry(nil)
	cfg := models.InitConfig{
		Classifier: models.Asset{
			Name:       "classifier",
			Open:       func() (inference.Runtime, error) { return meanClassifier(), nil },
			InputSize:  testSize,
			ClassCount: 3,
		},
		Labels: pipelineLabels(),
	}
	if segmentation != nil {
		cfg.Segmentation = &models.Asset{
			Name:      "segmentation",
			Open:      func() (inference.Runtime, error) { return segmentation, nil },
			InputSize: testSize,
		}
	}
	require.NoError(t, reg.Initialize(cfg))
	return reg
}

func testPipeline(t *testing.T, segmentation inference.Runtime) *Pipeline {
	t.Helper()

	opts := DefaultOptions()
	opts.InputSize = testSize
	opts.ConfidenceThreshold = 0.1
	return NewPipeline(readyRegistry(t, segmentation), opts, nil)
}

func brightPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 220, B: 180, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDiagnoseHappyPath(t *testing.T) {
	p := testPipeline(t, nil)

	result, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: brightPNG(t), CropHint: "tomato"})
	require.NoError(t, err)

	require.NotEmpty(t, result.Predictions)
	assert.Equal(t, result.Predictions[0].Confidence, result.Confidence)
	assert.Equal(t, "tomato", result.CropHint)
	assert.NotEmpty(t, result.ImageRef)
	assert.False(t, result.Timestamp.IsZero())

	for _, pred := range result.Predictions {
		assert.Greater(t, pred.Confidence, p.Options().ConfidenceThreshold)
	}
	assert.LessOrEqual(t, len(result.Predictions), p.Options().MaxPredictions)
}

func TestDiagnoseRespectsMaxPredictions(t *testing.T) {
	opts := DefaultOptions()
	opts.InputSize = testSize
	opts.ConfidenceThreshold = 0.001
	opts.MaxPredictions = 2
	p := NewPipeline(readyRegistry(t, nil), opts, nil)

	result, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: brightPNG(t)})
	require.NoError(t, err)
	// Three scores qualify above the tiny threshold; only the top two
	// survive truncation.
	assert.Len(t, result.Predictions, 2)
}

func TestDiagnoseOrderingIsDescending(t *testing.T) {
	p := testPipeline(t, nil)

	result, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: brightPNG(t)})
	require.NoError(t, err)

	for i := 1; i < len(result.Predictions); i++ {
		prev, cur := result.Predictions[i-1], result.Predictions[i]
		if prev.Confidence == cur.Confidence {
			assert.Less(t, prev.ClassIndex, cur.ClassIndex)
		} else {
			assert.Greater(t, prev.Confidence, cur.Confidence)
		}
	}
}

func TestDiagnoseNotInitialized(t *testing.T) {
	reg := models.NewRegistry(nil)
	p := NewPipeline(reg, DefaultOptions(), nil)

	_, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: brightPNG(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInitialized))
}

func TestDiagnoseGarbageBytesKeepsPipelineReady(t *testing.T) {
	p := testPipeline(t, nil)

	_, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: []byte("not an image")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImageDecode))

	// The failed call must not corrupt the Ready state.
	result, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: brightPNG(t)})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Predictions)
}

func TestDiagnoseDeterministic(t *testing.T) {
	p := testPipeline(t, constantSegmenter(0.7))
	img := brightPNG(t)

	first, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: img})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		next, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: img})
		require.NoError(t, err)
		assert.Equal(t, first.Predictions, next.Predictions)
		assert.Equal(t, first.Confidence, next.Confidence)
		assert.Equal(t, first.ImageRef, next.ImageRef)
	}
}

func TestDiagnoseAbsentSegmentationEqualsAllOnesMask(t *testing.T) {
	img := brightPNG(t)

	withoutSeg := testPipeline(t, nil)
	withOnesSeg := testPipeline(t, constantSegmenter(1.0))

	a, err := withoutSeg.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: img})
	require.NoError(t, err)
	b, err := withOnesSeg.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: img})
	require.NoError(t, err)

	assert.Equal(t, a.Predictions, b.Predictions)
	assert.True(t, a.SegmentationDegraded, "absent model is the degradation path")
	assert.False(t, b.SegmentationDegraded, "a working model is not degraded")
}

func TestDiagnoseSegmentationSuppressesBackground(t *testing.T) {
	img := brightPNG(t)

	full := testPipeline(t, constantSegmenter(1.0))
	zero := testPipeline(t, constantSegmenter(0.0))

	bright, err := full.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: img})
	require.NoError(t, err)
	suppressed, err := zero.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: img})
	require.NoError(t, err)

	assert.NotEmpty(t, bright.Predictions)
	assert.Empty(t, suppressed.Predictions, "an all-zero mask zeroes the classifier input")
	assert.Zero(t, suppressed.Confidence)
}

func TestDiagnoseSegmentationRuntimeFailureDegrades(t *testing.T) {
	broken := &fakeRuntime{
		inputLen:  3 * testSize * testSize,
		outputLen: testSize * testSize,
		err:       errors.New("segmentation runtime crashed"),
	}
	p := testPipeline(t, broken)

	result, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: brightPNG(t)})
	require.NoError(t, err, "segmentation failure must not fail the diagnosis")
	assert.True(t, result.SegmentationDegraded)
	assert.NotEmpty(t, result.Predictions)
}

func TestDiagnoseSegmentationBadShapeDegrades(t *testing.T) {
	wrongShape := &fakeRuntime{
		inputLen:  3 * testSize * testSize,
		outputLen: 7,
		fn:        func([]float32) []float32 { return make([]float32, 7) },
	}
	p := testPipeline(t, wrongShape)

	result, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: brightPNG(t)})
	require.NoError(t, err)
	assert.True(t, result.SegmentationDegraded)
}

func TestClassifyMissingHandle(t *testing.T) {
	_, err := classify(nil, nil, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClassifierUnavailable))
}

func TestDiagnoseClassifierRuntimeFailureAborts(t *testing.T) {
	reg := models.NewRegistry(nil)
	require.NoError(t, reg.Initialize(models.InitConfig{
		Classifier: models.Asset{
			Name: "classifier",
			Open: func() (inference.Runtime, error) {
				return &fakeRuntime{err: errors.New("inference engine fault")}, nil
			},
			InputSize:  testSize,
			ClassCount: 3,
		},
		Labels: pipelineLabels(),
	}))
	opts := DefaultOptions()
	opts.InputSize = testSize
	p := NewPipeline(reg, opts, nil)

	result, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: brightPNG(t)})
	require.Error(t, err)
	assert.Nil(t, result, "no partial result on classification failure")

	// Ready state survives the failed call.
	assert.True(t, reg.Ready())
}

func TestDiagnoseCancelledContext(t *testing.T) {
	p := testPipeline(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Diagnose(ctx, DiagnoseRequest{ImageBytes: brightPNG(t)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiagnoseApplySigmoid(t *testing.T) {
	reg := models.NewRegistry(nil)
	require.NoError(t, reg.Initialize(models.InitConfig{
		Classifier: models.Asset{
			Name: "logit-classifier",
			Open: func() (inference.Runtime, error) {
				return &fakeRuntime{
					inputLen:  3 * testSize * testSize,
					outputLen: 3,
					fn:        func([]float32) []float32 { return []float32{4.0, 0.0, -4.0} },
				}, nil
			},
			InputSize:  testSize,
			ClassCount: 3,
		},
		Labels: pipelineLabels(),
	}))
	opts := DefaultOptions()
	opts.InputSize = testSize
	opts.ApplySigmoid = true
	p := NewPipeline(reg, opts, nil)

	result, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: brightPNG(t)})
	require.NoError(t, err)

	// sigmoid(4) ~ 0.982, sigmoid(0) = 0.5, sigmoid(-4) ~ 0.018: two scores
	// clear the 0.3 default threshold.
	require.Len(t, result.Predictions, 2)
	assert.InDelta(t, 0.982, float64(result.Predictions[0].Confidence), 0.01)
	assert.InDelta(t, 0.5, float64(result.Predictions[1].Confidence), 1e-6)
}

func TestDiagnoseConcurrentCallsAgree(t *testing.T) {
	p := testPipeline(t, constantSegmenter(1.0))
	img := brightPNG(t)

	baseline, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: img})
	require.NoError(t, err)

	const callers = 8
	const callsEach = 5
	results := make(chan *Result, callers*callsEach)
	diagErrs := make(chan error, callers*callsEach)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsEach; j++ {
				result, err := p.Diagnose(context.Background(), DiagnoseRequest{ImageBytes: img})
				if err != nil {
					diagErrs <- err
					continue
				}
				results <- result
			}
		}()
	}
	wg.Wait()
	close(results)
	close(diagErrs)

	for err := range diagErrs {
		t.Fatalf("concurrent Diagnose failed: %v", err)
	}
	for result := range results {
		assert.Equal(t, baseline.Predictions, result.Predictions)
		assert.Equal(t, baseline.Confidence, result.Confidence)
		assert.Equal(t, baseline.ImageRef, result.ImageRef)
		assert.False(t, result.SegmentationDegraded)
	}
}
