// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package main provides the Haze CLI.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/haze-ml/haze/autodiff"
	"github.com/haze-ml/haze/backend/cpu"
	"github.com/haze-ml/haze/internal/data"
	"github.com/haze-ml/haze/internal/display"
	"github.com/haze-ml/haze/internal/train"
	"github.com/haze-ml/haze/nn"
	"github.com/haze-ml/haze/optim"
	"github.com/haze-ml/haze/tensor"
)

const version = "v0.1.0"

type backendT = *autodiff.AutodiffBackend[*cpu.Backend]

func main() {
	log.SetFlags(log.LstdFlags)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("Haze %s\n", version)
	case "train":
		if err := runTrain(os.Args[2:]); err != nil {
			log.Fatalf("train: %v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("Haze - a small neural network trainer")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  train      Train an MLP classifier (see train -h)")
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	epochs := fs.Int("epochs", 5, "number of training epochs")
	lr := fs.Float64("lr", 0.003, "learning rate")
	batchSize := fs.Int("batch", 64, "batch size")
	seed := fs.Int64("seed", 42, "random seed")
	dataDir := fs.String("data", "", "MNIST IDX directory (synthetic data if empty)")
	samples := fs.Int("samples", 640, "number of synthetic samples (ignored with -data)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	backend := autodiff.New(cpu.New())

	dataset, err := loadDataset(*dataDir, *samples, rng)
	if err != nil {
		return err
	}
	log.Printf("dataset: %d samples, %d features, %d classes",
		dataset.NumSamples(), dataset.InputWidth, dataset.NumClasses)

	loader, err := data.NewLoader(dataset, *batchSize, rng, backend)
	if err != nil {
		return err
	}

	model := buildModel(dataset.InputWidth, dataset.NumClasses, rng, backend)
	criterion := nn.NewCrossEntropyLoss(backend)
	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: float32(*lr)})

	trainer := train.New[backendT](backend, model, criterion, optimizer, loader)
	if _, err := trainer.Run(train.Config{Epochs: *epochs}); err != nil {
		return err
	}

	accuracy := train.Evaluate[backendT](backend, model, loader)
	log.Printf("train accuracy: %.2f%%", accuracy*100)

	showSample(backend, model, dataset)
	return nil
}

func loadDataset(dataDir string, samples int, rng *rand.Rand) (*data.Dataset, error) {
	if dataDir == "" {
		return data.Synthetic(samples, 784, 10, rng), nil
	}
	return data.LoadMNIST(dataDir, true, 0)
}

func buildModel(inputWidth, numClasses int, rng *rand.Rand, backend backendT) *nn.Sequential[backendT] {
	return nn.NewSequential[backendT](
		nn.NewLinear(inputWidth, 128, rng, backend),
		nn.NewReLU[backendT](),
		nn.NewLinear(128, 64, rng, backend),
		nn.NewReLU[backendT](),
		nn.NewLinear(64, numClasses, rng, backend),
	)
}

// showSample renders the first sample with the model's class probabilities.
func showSample(backend backendT, model nn.Module[backendT], dataset *data.Dataset) {
	pixels := dataset.Images[0]
	side := int(math.Sqrt(float64(len(pixels))))
	if side*side != len(pixels) {
		return
	}

	var probs []float32
	backend.GetTape().NoGrad(func() {
		input, err := tensor.FromSlice(pixels, tensor.Shape{1, len(pixels)}, backend)
		if err != nil {
			return
		}
		logits := model.Forward(input)
		probs = backend.Softmax(logits.Raw()).AsFloat32()
	})
	if probs == nil {
		return
	}

	fmt.Printf("\nsample 0 (label %d):\n", dataset.Labels[0])
	if err := display.Prediction(os.Stdout, pixels, probs); err != nil {
		log.Printf("render: %v", err)
	}
}
