// rigtool is a CLI utility for inspecting the character rig and its
// animation state.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/animestudio/internal/config"
	"github.com/Faultbox/animestudio/internal/engine/animator"
	"github.com/Faultbox/animestudio/pkg/face"
	"github.com/Faultbox/animestudio/pkg/rig"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "bones", "tree":
		cmdBones()
	case "poses":
		cmdPoses()
	case "emotions":
		cmdEmotions()
	case "export":
		cmdExport(args)
	case "config":
		cmdConfig(args)
	case "verify":
		cmdVerify()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rigtool - character rig inspection utility

Usage:
  rigtool <command> [options]

Commands:
  bones            Print the humanoid bone tree
  poses            List pose names and the bones they drive
  emotions         List emotion presets
  export [file]    Export default animation state as JSON
  config [file]    Write the default config as YAML (user config dir if no file)
  verify           Verify state export/import round-trip

Examples:
  rigtool bones
  rigtool export state.json
  rigtool config
  rigtool verify`)
}

func cmdBones() {
	s := rig.NewHumanoid()
	printBone(s, 0, 0)
	fmt.Printf("\n%d bones, chains: %s\n", s.Count(), strings.Join(s.ChainNames(), ", "))
}

func printBone(s *rig.Skeleton, i, depth int) {
	b := s.Bone(i)
	fmt.Printf("%s%s (%s, length %.3f)\n",
		strings.Repeat("  ", depth), b.Name, b.Type, b.Length)
	for _, c := range b.Children {
		printBone(s, c, depth+1)
	}
}

func cmdPoses() {
	s := rig.NewHumanoid()
	for _, name := range s.PoseNames() {
		fmt.Println(name)
	}
}

func cmdEmotions() {
	for _, name := range face.EmotionNames() {
		fmt.Println(name)
	}
}

func cmdExport(args []string) {
	a := animator.New(config.Default(), nil)
	data, err := a.ExportJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(args) > 0 {
		if err := os.WriteFile(args[0], data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("State written to %s\n", args[0])
		return
	}
	fmt.Println(string(data))
}

func cmdConfig(args []string) {
	cfg := config.Default()

	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default config written to %s\n", args[0])
		return
	}

	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Default config written to %s\n", config.DefaultConfigPath())
}

func cmdVerify() {
	a := animator.New(config.Default(), nil)
	a.SetPose("wave", 0)
	a.SetEmotion("happy", 1, 0.3)
	a.SetHeadRotation(5, 20, 0)

	data, err := a.ExportJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export error: %v\n", err)
		os.Exit(1)
	}

	b := animator.New(config.Default(), nil)
	if err := b.ImportJSON(data); err != nil {
		fmt.Fprintf(os.Stderr, "Import error: %v\n", err)
		os.Exit(1)
	}

	mismatches := 0
	for _, name := range a.Skeleton().Names() {
		ba, _ := a.Skeleton().BoneByName(name)
		bb, _ := b.Skeleton().BoneByName(name)
		if ba.TargetRotation != bb.TargetRotation {
			fmt.Printf("MISMATCH bone %s: %v != %v\n", name, ba.TargetRotation, bb.TargetRotation)
			mismatches++
		}
	}
	for id := face.ShapeID(0); id < face.ShapeCount; id++ {
		wa := a.Face().Shape(id).TargetWeight
		wb := b.Face().Shape(id).TargetWeight
		if wa != wb {
			fmt.Printf("MISMATCH shape %v: %v != %v\n", id, wa, wb)
			mismatches++
		}
	}

	if mismatches > 0 {
		fmt.Printf("FAIL: %d mismatches\n", mismatches)
		os.Exit(1)
	}
	fmt.Println("OK: state round-trip verified")
}
