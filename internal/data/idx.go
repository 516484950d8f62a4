// Copyright 2026 The Haze Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// IDX magic numbers for image and label files.
const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
)

// LoadMNIST loads the MNIST dataset from official IDX binary files.
//
// Expected files in dataDir:
//   - train-images-idx3-ubyte / train-labels-idx1-ubyte (train=true)
//   - t10k-images-idx3-ubyte / t10k-labels-idx1-ubyte (train=false)
//
// Pixels are normalized from 0-255 to [0, 1]. maxSamples limits the number
// of samples loaded (0 = load all).
func LoadMNIST(dataDir string, train bool, maxSamples int) (*Dataset, error) {
	var imageFile, labelFile string
	if train {
		imageFile = filepath.Join(dataDir, "train-images-idx3-ubyte")
		labelFile = filepath.Join(dataDir, "train-labels-idx1-ubyte")
	} else {
		imageFile = filepath.Join(dataDir, "t10k-images-idx3-ubyte")
		labelFile = filepath.Join(dataDir, "t10k-labels-idx1-ubyte")
	}

	imagesRaw, width, err := readIDXImages(imageFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	labelsRaw, err := readIDXLabels(labelFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}

	if len(imagesRaw) != len(labelsRaw) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", len(imagesRaw), len(labelsRaw))
	}

	numSamples := len(imagesRaw)
	if maxSamples > 0 && numSamples > maxSamples {
		numSamples = maxSamples
	}

	images := make([][]float32, numSamples)
	labels := make([]int32, numSamples)
	for i := 0; i < numSamples; i++ {
		img := make([]float32, width)
		for j, pixel := range imagesRaw[i] {
			img[j] = float32(pixel) / 255.0
		}
		images[i] = img
		labels[i] = int32(labelsRaw[i])
	}

	return &Dataset{
		Images:     images,
		Labels:     labels,
		InputWidth: width,
		NumClasses: 10,
	}, nil
}

// readIDXImages reads an IDX image file.
//
// Format:
//
//	magic number: 0x00000803 (2051)
//	number of images, rows, cols: 4 bytes each, big-endian
//	pixel data: unsigned bytes (0-255)
func readIDXImages(filename string) ([][]byte, int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	var magic uint32
	if err := binary.Read(file, binary.BigEndian, &magic); err != nil {
		return nil, 0, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != idxImagesMagic {
		return nil, 0, fmt.Errorf("invalid magic number: got %d, want %d", magic, idxImagesMagic)
	}

	var numImages, numRows, numCols uint32
	if err := binary.Read(file, binary.BigEndian, &numImages); err != nil {
		return nil, 0, err
	}
	if err := binary.Read(file, binary.BigEndian, &numRows); err != nil {
		return nil, 0, err
	}
	if err := binary.Read(file, binary.BigEndian, &numCols); err != nil {
		return nil, 0, err
	}

	imageSize := int(numRows * numCols)
	images := make([][]byte, numImages)
	for i := range images {
		images[i] = make([]byte, imageSize)
		if _, err := io.ReadFull(file, images[i]); err != nil {
			return nil, 0, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}

	return images, imageSize, nil
}

// readIDXLabels reads an IDX label file.
//
// Format:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes, big-endian
//	label data: unsigned bytes (0-9)
func readIDXLabels(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var magic uint32
	if err := binary.Read(file, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != idxLabelsMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", magic, idxLabelsMagic)
	}

	var numLabels uint32
	if err := binary.Read(file, binary.BigEndian, &numLabels); err != nil {
		return nil, err
	}

	labels := make([]byte, numLabels)
	if _, err := io.ReadFull(file, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}

	return labels, nil
}
