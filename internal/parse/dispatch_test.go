package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findExport(exports []ExportRecord, name string) *ExportRecord {
	for i := range exports {
		if exports[i].Name == name {
			return &exports[i]
		}
	}
	return nil
}

func findImport(imports []ImportEdge, module string) *ImportEdge {
	for i := range imports {
		if imports[i].Module == module {
			return &imports[i]
		}
	}
	return nil
}

func TestDispatcher_SupportedLanguages(t *testing.T) {
	d := NewDispatcher()
	langs := d.SupportedLanguages()
	assert.Len(t, langs, 18)
}

func TestDispatcher_UnknownLanguageErrors(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Parse("x.cobol", "cobol", []byte(""))
	assert.Error(t, err)
}

func TestGoParser_ExtractsPackageMainAndFunction(t *testing.T) {
	src := []byte(`package main

import "fmt"

func main() {
	fmt.Println("hi")
}

func Helper() string {
	return "x"
}

type Config struct {
	Name string
}
`)

	d := NewDispatcher()
	pf, err := d.Parse("cmd/app/main.go", "go", src)
	require.NoError(t, err)

	assert.Equal(t, "main", pf.Metadata.PackageName)
	assert.True(t, pf.Metadata.IsMainPackage)
	assert.True(t, pf.Metadata.HasMainFunction)

	require.NotNil(t, findImport(pf.Imports, "fmt"))

	helper := findExport(pf.Exports, "Helper")
	require.NotNil(t, helper)
	assert.Equal(t, ExportFunction, helper.Kind)

	config := findExport(pf.Exports, "Config")
	require.NotNil(t, config)
	assert.Equal(t, ExportStruct, config.Kind)
}

func TestGoParser_DetectsTestFile(t *testing.T) {
	src := []byte(`package app

func TestSomething(t *T) {}
`)
	d := NewDispatcher()
	pf, err := d.Parse("app/app_test.go", "go", src)
	require.NoError(t, err)
	assert.True(t, pf.Metadata.IsTestFile)
}

func TestTypeScriptParser_ExtractsImportsAndExports(t *testing.T) {
	src := []byte(`import { foo } from "./foo";
import bar from "bar-pkg";

export class Widget {
  render() {}
}

export function build() {
  return 1;
}

export { helper } from "./helper";
`)
	d := NewDispatcher()
	pf, err := d.Parse("src/widget.ts", "typescript", src)
	require.NoError(t, err)

	rel := findImport(pf.Imports, "./foo")
	require.NotNil(t, rel)
	assert.Equal(t, ImportRelative, rel.Kind)

	pkg := findImport(pf.Imports, "bar-pkg")
	require.NotNil(t, pkg)
	assert.Equal(t, ImportWorkspace, pkg.Kind)

	widget := findExport(pf.Exports, "Widget")
	require.NotNil(t, widget)
	assert.Equal(t, ExportClass, widget.Kind)

	build := findExport(pf.Exports, "build")
	require.NotNil(t, build)
	assert.Equal(t, ExportFunction, build.Kind)

	reexport := findExport(pf.Exports, "helper")
	require.NotNil(t, reexport)
	assert.Equal(t, "./helper", reexport.SourceModule)
}

func TestPythonParser_RelativeImportsAndMainBlock(t *testing.T) {
	src := []byte(`from . import sibling
from ..pkg import thing
import os

def run():
    pass

class Service:
    pass

if __name__ == "__main__":
    run()
`)
	d := NewDispatcher()
	pf, err := d.Parse("app/service.py", "python", src)
	require.NoError(t, err)

	assert.True(t, pf.Metadata.HasMainBlock)

	sibling := findImport(pf.Imports, ".")
	require.NotNil(t, sibling)
	assert.Equal(t, ImportRelative, sibling.Kind)

	abs := findImport(pf.Imports, "os")
	require.NotNil(t, abs)
	assert.Equal(t, ImportAbsolute, abs.Kind)

	require.NotNil(t, findExport(pf.Exports, "run"))
	require.NotNil(t, findExport(pf.Exports, "Service"))
}

func TestRustParser_ModDeclarationAndPubItems(t *testing.T) {
	src := []byte(`mod widgets;

use crate::widgets::Widget;

pub struct Config {
    pub name: String,
}

pub fn build() -> Config {
    Config { name: String::new() }
}
`)
	d := NewDispatcher()
	pf, err := d.Parse("src/lib.rs", "rust", src)
	require.NoError(t, err)

	assert.True(t, pf.Metadata.IsModRoot)

	modEdge := findImport(pf.Imports, "widgets")
	require.NotNil(t, modEdge)

	useEdge := findImport(pf.Imports, "crate::widgets::Widget")
	require.NotNil(t, useEdge)
	assert.Equal(t, ImportRelative, useEdge.Kind)

	require.NotNil(t, findExport(pf.Exports, "Config"))
	require.NotNil(t, findExport(pf.Exports, "build"))
}

func TestJavaParser_PackageMainAndSpringAnnotation(t *testing.T) {
	src := []byte(`package com.example.app;

import org.springframework.stereotype.Component;

@Component
public class Widget {
    public static void main(String[] args) {
    }
}
`)
	d := NewDispatcher()
	pf, err := d.Parse("src/main/java/com/example/app/Widget.java", "java", src)
	require.NoError(t, err)

	assert.Equal(t, "com.example.app", pf.Metadata.PackageName)
	assert.True(t, pf.Metadata.HasMainMethod)
	assert.True(t, pf.Metadata.IsSpringComponent)

	widget := findExport(pf.Exports, "Widget")
	require.NotNil(t, widget)
	require.Len(t, pf.Classes, 1)
	require.Len(t, pf.Classes[0].Decorators, 1)
	assert.Equal(t, "Component", pf.Classes[0].Decorators[0].Name)
}

func TestRubyParser_RequireAndClass(t *testing.T) {
	src := []byte(`require 'json'
require_relative './helper'

class Widget
  def build
  end
end
`)
	d := NewDispatcher()
	pf, err := d.Parse("lib/widget.rb", "ruby", src)
	require.NoError(t, err)

	require.NotNil(t, findImport(pf.Imports, "json"))
	require.NotNil(t, findExport(pf.Exports, "Widget"))
	require.NotNil(t, findExport(pf.Exports, "build"))
}

func TestPHPParser_UseAndClass(t *testing.T) {
	src := []byte(`<?php

use App\Service\Widget;

class Builder
{
    public function build()
    {
    }
}
`)
	d := NewDispatcher()
	pf, err := d.Parse("src/Builder.php", "php", src)
	require.NoError(t, err)

	require.NotNil(t, findImport(pf.Imports, `App\Service\Widget`))
	require.NotNil(t, findExport(pf.Exports, "Builder"))
}

func TestZigParser_ImportAndPubFn(t *testing.T) {
	src := []byte(`const std = @import("std");

pub fn main() void {
}
`)
	d := NewDispatcher()
	pf, err := d.Parse("src/main.zig", "zig", src)
	require.NoError(t, err)

	require.NotNil(t, findImport(pf.Imports, "std"))
	assert.True(t, pf.Metadata.HasMainMethod)
	require.NotNil(t, findExport(pf.Exports, "main"))
}
