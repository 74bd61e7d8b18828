// Command nfaudit audits a database schema against the normal forms
// 1NF through 6NF/DKNF.
package main

func main() {
	Execute()
}
