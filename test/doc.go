// This file is part of Vidflood.
//
// Vidflood is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Vidflood is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Vidflood.  If not, see <https://www.gnu.org/licenses/>.

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect family of functions report a test error but allow the test to
// continue. The Demand family of functions stop the test immediately. Demand
// functions should be used when the value being tested is used in further
// tests and so must be correct. For example, testing that the lengths of two
// slices are equal before iterating over them in unison.
//
// ExpectSuccess() and ExpectFailure() test for success and failure under
// generic conditions. The documentation for those functions describe the
// currently supported types. Note that nil is considered a success value.
// This is because of how errors usually work (nil to indicate no error).
//
// The CompareWriter type implements the io.Writer interface and should be
// used to capture output. The Compare() function can then be used to test for
// equality.
//
// The StubServer type is a minimal canvas server. It records every line it
// receives and can be told to drop connections or to answer the SIZE command
// with a specific reply.
package test
