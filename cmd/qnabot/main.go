// Command qnabot is a console question and answer bot backed by a YAML
// knowledge base, with active learning and multi-turn prompts.
package main

func main() {
	Execute()
}
