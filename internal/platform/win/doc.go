// Package win implements the platform provider on Win32 and UI Automation.
// UIA has no Go binding, so the automation client talks to COM through raw
// vtable calls; everything else goes through golang.org/x/sys/windows or
// lazily loaded user32/gdi32 procs.
//
// On other operating systems the package compiles as an empty stub and
// registers nothing.
package win
