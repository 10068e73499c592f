package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModelJSON = `{
  "feature_names": ["glucose", "insulin", "bmi", "age"],
  "weights": [6.0, 1.2, 2.5, 0.8],
  "intercept": -4.6
}`

const testDatasetCSV = `Pregnancies,Glucose,BloodPressure,SkinThickness,Insulin,BMI,DiabetesPedigreeFunction,Age,Outcome
6,148,72,35,0,33.6,0.627,50,1
1,85,66,29,0,26.6,0.351,31,0
8,183,64,0,0,23.3,0.672,32,1
1,89,66,23,94,28.1,0.167,21,0
0,137,40,35,168,43.1,2.288,33,1
5,116,74,0,0,25.6,0.201,30,0
3,78,50,32,88,31.0,0.248,26,1
10,115,0,0,0,35.3,0.134,29,0
2,197,70,45,543,30.5,0.158,53,1
4,110,92,0,0,37.6,0.191,30,0
`

func writePredictorFixtures(t *testing.T) (modelPath, datasetPath string) {
	t.Helper()
	dir := t.TempDir()
	modelPath = filepath.Join(dir, "model.json")
	datasetPath = filepath.Join(dir, "diabetes.csv")
	require.NoError(t, os.WriteFile(modelPath, []byte(testModelJSON), 0o644))
	require.NoError(t, os.WriteFile(datasetPath, []byte(testDatasetCSV), 0o644))
	return modelPath, datasetPath
}

func TestLoadPredictorFitsScalerBounds(t *testing.T) {
	modelPath, datasetPath := writePredictorFixtures(t)
	p, err := LoadPredictor(modelPath, datasetPath)
	require.NoError(t, err)

	// Glucose spans 78..197 in the fixture dataset.
	assert.InDelta(t, 0.0, p.scale(0, 78), 1e-9)
	assert.InDelta(t, 1.0, p.scale(0, 197), 1e-9)
	assert.InDelta(t, 0.5, p.scale(0, 137.5), 1e-9)
}

func TestPredictSeparatesRiskLevels(t *testing.T) {
	modelPath, datasetPath := writePredictorFixtures(t)
	p, err := LoadPredictor(modelPath, datasetPath)
	require.NoError(t, err)

	assert.True(t, p.Predict(195, 500, 42, 52), "high vitals flag risk")
	assert.False(t, p.Predict(80, 10, 24, 22), "low vitals do not")
}

func TestLoadPredictorMissingModel(t *testing.T) {
	_, datasetPath := writePredictorFixtures(t)
	_, err := LoadPredictor(filepath.Join(t.TempDir(), "absent.json"), datasetPath)
	assert.Error(t, err)
}

func TestLoadPredictorWrongWeightCount(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(`{"weights":[1,2],"intercept":0}`), 0o644))
	_, datasetPath := writePredictorFixtures(t)

	_, err := LoadPredictor(modelPath, datasetPath)
	assert.ErrorContains(t, err, "weights")
}

func TestLoadPredictorMissingColumn(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")
	datasetPath := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(modelPath, []byte(testModelJSON), 0o644))
	require.NoError(t, os.WriteFile(datasetPath, []byte("Glucose,BMI,Age\n100,25,30\n"), 0o644))

	_, err := LoadPredictor(modelPath, datasetPath)
	assert.ErrorContains(t, err, "Insulin")
}

func TestPredictLabel(t *testing.T) {
	assert.Equal(t, "You have Diabetes, please consult a Doctor.", PredictLabel(true))
	assert.Equal(t, "You don't have Diabetes.", PredictLabel(false))
}
