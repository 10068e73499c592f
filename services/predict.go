package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Feature order fed to the model: glucose, insulin, bmi, age.
const featureCount = 4

// modelFile is the serialized linear classifier: one weight per feature plus
// an intercept, decision threshold at zero.
type modelFile struct {
	FeatureNames []string  `json:"feature_names"`
	Weights      []float64 `json:"weights"`
	Intercept    float64   `json:"intercept"`
}

// Predictor scores diabetes risk with a linear model over min-max scaled
// vitals. The scaling bounds are fitted from a reference dataset at load
// time, matching how the model was trained.
type Predictor struct {
	weights   [featureCount]float64
	intercept float64
	mins      [featureCount]float64
	maxs      [featureCount]float64
}

// LoadPredictor reads the model weights and fits the scaler bounds from the
// reference CSV. Both artifacts ship with the binary; a failure here is a
// deployment problem and should abort startup.
func LoadPredictor(modelPath, datasetPath string) (*Predictor, error) {
	raw, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var mf modelFile
	if err := json.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if len(mf.Weights) != featureCount {
		return nil, fmt.Errorf("model has %d weights, want %d", len(mf.Weights), featureCount)
	}

	p := &Predictor{intercept: mf.Intercept}
	copy(p.weights[:], mf.Weights)

	if err := p.fitScaler(datasetPath); err != nil {
		return nil, err
	}
	return p, nil
}

// fitScaler reads the Glucose, Insulin, BMI and Age columns of the reference
// dataset and records their min and max for feature scaling.
func (p *Predictor) fitScaler(datasetPath string) error {
	f, err := os.Open(datasetPath)
	if err != nil {
		return fmt.Errorf("open reference dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read dataset header: %w", err)
	}

	wanted := []string{"Glucose", "Insulin", "BMI", "Age"}
	cols := make([]int, featureCount)
	for i, name := range wanted {
		cols[i] = -1
		for j, h := range header {
			if h == name {
				cols[i] = j
				break
			}
		}
		if cols[i] == -1 {
			return fmt.Errorf("dataset missing column %q", name)
		}
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		for i, col := range cols {
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				return fmt.Errorf("dataset row %d col %s: %w", rows+1, wanted[i], err)
			}
			if rows == 0 || v < p.mins[i] {
				p.mins[i] = v
			}
			if rows == 0 || v > p.maxs[i] {
				p.maxs[i] = v
			}
		}
		rows++
	}

	if rows == 0 {
		return fmt.Errorf("reference dataset %s has no data rows", datasetPath)
	}
	return nil
}

// scale maps a raw value into [0,1] over the fitted bounds. Out-of-range
// inputs extrapolate beyond the unit interval, same as the training scaler.
func (p *Predictor) scale(i int, v float64) float64 {
	span := p.maxs[i] - p.mins[i]
	if span == 0 {
		return 0
	}
	return (v - p.mins[i]) / span
}

// Predict returns true when the model flags elevated diabetes risk.
func (p *Predictor) Predict(glucose, insulin, bmi, age float64) bool {
	features := [featureCount]float64{glucose, insulin, bmi, age}
	score := p.intercept
	for i, v := range features {
		score += p.weights[i] * p.scale(i, v)
	}
	return score > 0
}

// PredictLabel maps the risk flag to the user-facing verdict.
func PredictLabel(risky bool) string {
	if risky {
		return "You have Diabetes, please consult a Doctor."
	}
	return "You don't have Diabetes."
}
