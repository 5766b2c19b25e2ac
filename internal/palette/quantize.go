package palette

import (
	"fmt"
	"runtime"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

// k-means settings: stop after kmeansMaxIter passes or once centers move
// less than kmeansEpsilon, keep the most compact of kmeansAttempts runs.
const (
	kmeansMaxIter  = 10
	kmeansEpsilon  = 1.0
	kmeansAttempts = 10
	kmeansSeed     = 0x12345
)

// Clusters is the raw k-means output. The caller must Close it.
type Clusters struct {
	Centers     gocv.Mat // k x 3, CV_32F, k-means label order
	Populations []int    // Samples assigned to each center
	Compactness float64  // Sum of squared distances to the assigned centers
}

// Close releases the centers Mat.
func (c *Clusters) Close() {
	if c == nil {
		return
	}
	c.Centers.Close()
}

// Shares returns each cluster's fraction of the samples.
func (c *Clusters) Shares() []float64 {
	shares := make([]float64, len(c.Populations))
	for i, n := range c.Populations {
		shares[i] = float64(n)
	}
	if total := floats.Sum(shares); total > 0 {
		floats.Scale(1/total, shares)
	}
	return shares
}

// Quantize clusters the sample rows into k dominant colors.
func Quantize(samples gocv.Mat, k int) (*Clusters, error) {
	if samples.Empty() {
		return nil, ErrEmptyImage
	}
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 clusters, got %d", k)
	}
	if samples.Rows() < k {
		return nil, fmt.Errorf("%d samples cannot form %d clusters", samples.Rows(), k)
	}
	if samples.Cols() != 3 || samples.Type() != gocv.MatTypeCV32F {
		return nil, fmt.Errorf("samples must be N x 3 CV_32F, got %d cols of type %v", samples.Cols(), samples.Type())
	}

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()

	criteria := gocv.NewTermCriteria(gocv.EPS+gocv.MaxIter, kmeansMaxIter, kmeansEpsilon)

	// OpenCV's default RNG is per OS thread; pin the goroutine so the seed
	// and the clustering see the same generator.
	runtime.LockOSThread()
	gocv.SetRNGSeed(kmeansSeed)
	compactness := gocv.KMeans(samples, k, &labels, criteria, kmeansAttempts, gocv.KMeansRandomCenters, &centers)
	runtime.UnlockOSThread()

	if centers.Rows() != k {
		centers.Close()
		return nil, fmt.Errorf("k-means returned %d centers, want %d", centers.Rows(), k)
	}

	return &Clusters{
		Centers:     centers,
		Populations: bincount(labels, k),
		Compactness: compactness,
	}, nil
}

// bincount counts how many samples carry each label.
func bincount(labels gocv.Mat, k int) []int {
	counts := make([]int, k)
	for i := 0; i < labels.Rows(); i++ {
		label := int(labels.GetIntAt(i, 0))
		if label >= 0 && label < k {
			counts[label]++
		}
	}
	return counts
}
