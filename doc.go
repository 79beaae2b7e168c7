// Package scram is your in-memory toolkit for quantitative risk
// analysis: fault trees, event trees, and the full qualitative and
// probabilistic pipeline behind them, in Go.
//
// 🚀 What is scram?
//
//	A modular, dependency-light library that brings together:
//
//	  • Model entities: basic/house events, gates, CCF groups, alignments,
//	    event trees and sequences (package mef)
//	  • A Boolean indexed DAG normal form with DAG sharing and signed
//	    edges (package pdag), plus a five-phase preprocessor (package
//	    preprocess)
//	  • Three qualitative engines — reduced-ordered BDD with complement
//	    edges, zero-suppressed BDD cut-set families, and MOCUS top-down
//	    expansion (packages bdd, zbdd, mocus)
//	  • Probability, importance, uncertainty, and SIL analysis over any of
//	    the above (package quant)
//	  • An orchestrator tying it all together across alignments, phases,
//	    and event-tree sequences (package risk)
//
// ✨ Why choose scram?
//
//   - Composable    — every stage (PDAG, BDD, ZBDD, MOCUS, quant) is a
//     standalone package usable on its own
//   - Arena-based   — nodes live in index-addressed arenas with weak
//     parent back-references, not pointer graphs
//   - Deterministic — variable ordering, preprocessing, and cut-set
//     minimization are stable and reproducible given a seed
//
// Under the hood, everything is organized under subpackages:
//
//	expr/       — probability expressions, random deviates, a shared RNG source
//	mef/        — the model-exchange entity graph: events, gates, CCF, event trees
//	pdag/       — the Boolean indexed DAG normal form and its builder
//	preprocess/ — the P1-P5 structural simplification pipeline
//	bdd/        — reduced-ordered BDD with complement edges
//	zbdd/       — zero-suppressed BDD cut-set families
//	mocus/      — module-based top-down cut-set expansion
//	quant/      — probability, importance, uncertainty, SIL analysis
//	risk/       — the orchestrator gluing it all together
//
// Quick shape of a fault tree:
//
//	    TOP
//	   /   \
//	  A     AND
//	       /   \
//	      B     C
//
//	TOP = A OR (B AND C): a minimal cut set {A} and a minimal cut set {B, C}.
//
// Dive into DESIGN.md for how each package is grounded and what library
// each stage reaches for.
//
//	go get github.com/scram-go/scram
package scram
