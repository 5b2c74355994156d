// Package model provides the data structures shared by the pipesmith package and its options.
// It defines the hooks a grid option implements and the records passed to them while combinations are generated.
package model
