// Command roundness-meter измеряет отклонение от круглости деталей на фотографиях.
//
// Использование:
//
//	roundness-meter --image_path part.jpg --method min_zone
//	roundness-meter --image_path photos/ --output_dir results
//	roundness-meter bot
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
