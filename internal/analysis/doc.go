// Package analysis inspects recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: periodicity of a series,
//     such as the swirl showing up in a centroid coordinate
//   - [Summarize]: mean, deviation and range of a series
//   - [TrajectoryToASCII]: a 2D path, such as the centroid seen from above
//
// Series are sampled once per frame, so the sample rate is the run's fps.
package analysis
